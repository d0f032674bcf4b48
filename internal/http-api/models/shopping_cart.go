package models

import "time"

// ShoppingCart keeps a recipe in a user's shopping cart. One row per pair.
type ShoppingCart struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_shopping_cart_pair" json:"user_id"`
	RecipeID  int64     `gorm:"not null;uniqueIndex:idx_shopping_cart_pair" json:"recipe_id"`
	AddedDate time.Time `gorm:"autoCreateTime" json:"added_date"`

	// Associations
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"user,omitempty"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE;" json:"recipe,omitempty"`
}

func (ShoppingCart) TableName() string {
	return "shopping_cart"
}
