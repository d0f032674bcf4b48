package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/LaHainee/foodgram-project-react/internal/cache"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/repository"
)

const ingredientListCacheKey = "ingredients:all"

// IngredientService serves ingredient reference data. The full list is
// cached; name searches always hit the store.
type IngredientService struct {
	repo  *repository.IngredientRepo
	cache *cache.Client
}

func NewIngredientService(repo *repository.IngredientRepo, cache *cache.Client) *IngredientService {
	return &IngredientService{repo: repo, cache: cache}
}

func (s *IngredientService) List(ctx context.Context, name string) ([]models.Ingredient, error) {
	if name != "" {
		return s.repo.SearchByName(ctx, name)
	}

	var cached []models.Ingredient
	if hit, err := s.cache.GetJSON(ctx, ingredientListCacheKey, &cached); err == nil && hit {
		return cached, nil
	}

	ingredients, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, ingredientListCacheKey, ingredients)
	return ingredients, nil
}

func (s *IngredientService) Get(ctx context.Context, id int64) (*models.Ingredient, error) {
	ingredient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: ingredient %d", ErrNotFound, id)
		}
		return nil, err
	}
	return ingredient, nil
}

// Create adds an ingredient (administrators only, enforced at the boundary).
func (s *IngredientService) Create(ctx context.Context, ingredient *models.Ingredient) error {
	if ingredient.Name == "" || ingredient.MeasurementUnit == "" {
		return fmt.Errorf("%w: ingredient name and measurement_unit are required", ErrValidation)
	}
	if err := s.repo.Create(ctx, ingredient); err != nil {
		if repository.IsDuplicateKey(err) {
			return fmt.Errorf("%w: ingredient %q", ErrConflict, ingredient.Name)
		}
		return err
	}
	_ = s.cache.Delete(ctx, ingredientListCacheKey)
	return nil
}
