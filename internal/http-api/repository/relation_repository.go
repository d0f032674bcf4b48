package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
)

// RelationRepository stores uniquely-keyed (user, target) rows. It is written
// once and instantiated for Follow, Favorite and ShoppingCart; R is the row
// model, T the target key type (recipe id or author id).
type RelationRepository[R any, T comparable] struct {
	db        *gorm.DB
	targetCol string
	newRow    func(userID string, targetID T) R
}

func NewRelationRepository[R any, T comparable](db *gorm.DB, targetCol string, newRow func(string, T) R) *RelationRepository[R, T] {
	return &RelationRepository[R, T]{db: db, targetCol: targetCol, newRow: newRow}
}

// Add inserts the pair row. The unique index on (user_id, target) makes the
// store reject a duplicate pair even when two requests race past Exists.
func (r *RelationRepository[R, T]) Add(ctx context.Context, userID string, targetID T) error {
	row := r.newRow(userID, targetID)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("add relation: %w", err)
	}
	return nil
}

func (r *RelationRepository[R, T]) Remove(ctx context.Context, userID string, targetID T) error {
	var row R
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND "+r.targetCol+" = ?", userID, targetID).
		Delete(&row)

	if result.Error != nil {
		return fmt.Errorf("remove relation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RelationRepository[R, T]) Exists(ctx context.Context, userID string, targetID T) (bool, error) {
	var row R
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&row).
		Where("user_id = ? AND "+r.targetCol+" = ?", userID, targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns the user's rows in insertion order, with the given
// associations preloaded.
func (r *RelationRepository[R, T]) List(ctx context.Context, userID string, preloads ...string) ([]R, error) {
	var rows []R
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc")
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	return rows, nil
}

func NewFollowRepository(db *gorm.DB) *RelationRepository[models.Follow, string] {
	return NewRelationRepository(db, "author_id", func(userID, authorID string) models.Follow {
		return models.Follow{UserID: userID, AuthorID: authorID}
	})
}

func NewFavoriteRepository(db *gorm.DB) *RelationRepository[models.Favorite, int64] {
	return NewRelationRepository(db, "recipe_id", func(userID string, recipeID int64) models.Favorite {
		return models.Favorite{UserID: userID, RecipeID: recipeID}
	})
}

func NewShoppingCartRepository(db *gorm.DB) *RelationRepository[models.ShoppingCart, int64] {
	return NewRelationRepository(db, "recipe_id", func(userID string, recipeID int64) models.ShoppingCart {
		return models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	})
}
