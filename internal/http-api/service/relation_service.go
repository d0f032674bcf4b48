package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/repository"
)

// RelationService is the generic add/remove toggle over a uniquely-keyed
// (user, target) relation. Implemented once, instantiated for Follow,
// Favorite and ShoppingCart. Re-adding an existing pair is a visible
// Conflict, not a silent upsert. The Exists precheck only produces a clean
// message; the store's unique constraint is the one that wins a race, so its
// duplicate-key error is remapped to the same Conflict.
type RelationService[R any, T comparable] struct {
	repo *repository.RelationRepository[R, T]
	kind string
}

func NewRelationService[R any, T comparable](repo *repository.RelationRepository[R, T], kind string) *RelationService[R, T] {
	return &RelationService[R, T]{repo: repo, kind: kind}
}

func (s *RelationService[R, T]) Add(ctx context.Context, userID string, targetID T) error {
	exists, err := s.repo.Exists(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrConflict, s.kind)
	}
	if err := s.repo.Add(ctx, userID, targetID); err != nil {
		if repository.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", ErrConflict, s.kind)
		}
		return err
	}
	return nil
}

func (s *RelationService[R, T]) Remove(ctx context.Context, userID string, targetID T) error {
	if err := s.repo.Remove(ctx, userID, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, s.kind)
		}
		return err
	}
	return nil
}

func (s *RelationService[R, T]) Exists(ctx context.Context, userID string, targetID T) (bool, error) {
	return s.repo.Exists(ctx, userID, targetID)
}

func (s *RelationService[R, T]) List(ctx context.Context, userID string, preloads ...string) ([]R, error) {
	return s.repo.List(ctx, userID, preloads...)
}

// FavoriteService toggles (user, recipe) favorite rows.
type FavoriteService struct {
	relation   *RelationService[models.Favorite, int64]
	recipeRepo *repository.RecipeRepo
}

func NewFavoriteService(repo *repository.RelationRepository[models.Favorite, int64], recipeRepo *repository.RecipeRepo) *FavoriteService {
	return &FavoriteService{
		relation:   NewRelationService(repo, "recipe already in favorites"),
		recipeRepo: recipeRepo,
	}
}

// Add favorites the recipe and returns it for the minimal projection.
func (s *FavoriteService) Add(ctx context.Context, userID string, recipeID int64) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, recipeID)
		}
		return nil, err
	}
	if err := s.relation.Add(ctx, userID, recipeID); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID string, recipeID int64) error {
	return s.relation.Remove(ctx, userID, recipeID)
}

func (s *FavoriteService) Exists(ctx context.Context, userID string, recipeID int64) (bool, error) {
	return s.relation.Exists(ctx, userID, recipeID)
}

// ShoppingCartService toggles (user, recipe) shopping cart rows.
type ShoppingCartService struct {
	relation   *RelationService[models.ShoppingCart, int64]
	recipeRepo *repository.RecipeRepo
}

func NewShoppingCartService(repo *repository.RelationRepository[models.ShoppingCart, int64], recipeRepo *repository.RecipeRepo) *ShoppingCartService {
	return &ShoppingCartService{
		relation:   NewRelationService(repo, "recipe already in shopping cart"),
		recipeRepo: recipeRepo,
	}
}

func (s *ShoppingCartService) Add(ctx context.Context, userID string, recipeID int64) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, recipeID)
		}
		return nil, err
	}
	if err := s.relation.Add(ctx, userID, recipeID); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *ShoppingCartService) Remove(ctx context.Context, userID string, recipeID int64) error {
	return s.relation.Remove(ctx, userID, recipeID)
}

func (s *ShoppingCartService) Exists(ctx context.Context, userID string, recipeID int64) (bool, error) {
	return s.relation.Exists(ctx, userID, recipeID)
}
