package models

type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name  string `json:"name" gorm:"uniqueIndex;not null;size:20"`
	Color string `json:"color" gorm:"not null;size:8"`
	Slug  string `json:"slug" gorm:"uniqueIndex;not null;size:50"`
}

func (Tag) TableName() string {
	return "tags"
}
