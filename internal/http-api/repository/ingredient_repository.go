package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
)

type IngredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) *IngredientRepo {
	return &IngredientRepo{db: db}
}

func (r *IngredientRepo) GetAll(ctx context.Context) ([]models.Ingredient, error) {
	var list []models.Ingredient
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get ingredients: %w", err)
	}
	return list, nil
}

// SearchByName performs a case-insensitive partial match on the name.
func (r *IngredientRepo) SearchByName(ctx context.Context, name string) ([]models.Ingredient, error) {
	var list []models.Ingredient
	pattern := "%" + strings.ToLower(name) + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name asc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}
	return list, nil
}

func (r *IngredientRepo) GetByID(ctx context.Context, id int64) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// GetByIDs returns the ingredients matching ids; callers compare lengths to
// detect references to missing ingredients.
func (r *IngredientRepo) GetByIDs(ctx context.Context, ids []int64) ([]models.Ingredient, error) {
	var list []models.Ingredient
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get ingredients by ids: %w", err)
	}
	return list, nil
}

func (r *IngredientRepo) Create(ctx context.Context, ingredient *models.Ingredient) error {
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return fmt.Errorf("create ingredient: %w", err)
	}
	return nil
}
