package models

// Ingredient is immutable reference data, created independently of recipes.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string `json:"name" gorm:"uniqueIndex;not null;size:200"`
	MeasurementUnit string `json:"measurement_unit" gorm:"not null;size:20"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
