package models

import "time"

// Favorite marks a recipe as favorited by a user. One row per pair.
type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_pair" json:"user_id"`
	RecipeID  int64     `gorm:"not null;uniqueIndex:idx_favorite_pair" json:"recipe_id"`
	AddedDate time.Time `gorm:"autoCreateTime" json:"added_date"`

	// Associations
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;" json:"recipe,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
