package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/repository"
)

// ImageStore uploads recipe images and returns a durable reference URL.
// The recipe service treats the returned reference as opaque.
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// IngredientLine is one (ingredient, amount) pair of a submitted recipe.
type IngredientLine struct {
	ID     int64
	Amount int
}

// RecipeInput is the validated payload for create and update. Image is a
// base64 data URI; on update it may be empty to keep the stored image.
type RecipeInput struct {
	Name        string
	Image       string
	Text        string
	CookingTime int
	TagIDs      []int64
	Ingredients []IngredientLine
}

// RecipeView is a recipe decorated with the viewer's relation flags.
// Anonymous viewers always get false flags.
type RecipeView struct {
	Recipe           models.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
}

type RecipeService struct {
	recipeRepo     *repository.RecipeRepo
	tagRepo        *repository.TagRepo
	ingredientRepo *repository.IngredientRepo
	favorites      *repository.RelationRepository[models.Favorite, int64]
	cart           *repository.RelationRepository[models.ShoppingCart, int64]
	images         ImageStore
}

func NewRecipeService(
	recipeRepo *repository.RecipeRepo,
	tagRepo *repository.TagRepo,
	ingredientRepo *repository.IngredientRepo,
	favorites *repository.RelationRepository[models.Favorite, int64],
	cart *repository.RelationRepository[models.ShoppingCart, int64],
	images ImageStore,
) *RecipeService {
	return &RecipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		favorites:      favorites,
		cart:           cart,
		images:         images,
	}
}

// Create validates the payload and persists the recipe with all its
// ingredient lines and tag associations atomically.
func (s *RecipeService) Create(ctx context.Context, authorID string, input RecipeInput) (*RecipeView, error) {
	lines, tags, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}
	if input.Image == "" {
		return nil, fmt.Errorf("%w: image is required", ErrValidation)
	}
	image, err := s.resolveImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		Image:       image,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}
	if err := s.recipeRepo.Create(ctx, recipe, lines, tags); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: duplicate ingredient in recipe", ErrConflict)
		}
		return nil, err
	}

	return s.Get(ctx, recipe.ID, authorID)
}

// Update replaces the recipe wholesale: scalar fields are overwritten and the
// ingredient/tag sets are discarded and recreated from the payload. Only the
// author or an administrator may update. An omitted image keeps the stored
// reference; every other field is mandatory.
func (s *RecipeService) Update(ctx context.Context, recipeID int64, userID, role string, input RecipeInput) (*RecipeView, error) {
	existing, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, recipeID)
		}
		return nil, err
	}
	if existing.AuthorID != userID && role != "admin" {
		return nil, fmt.Errorf("%w: only the author may update this recipe", ErrForbidden)
	}

	lines, tags, err := s.validate(ctx, input)
	if err != nil {
		return nil, err
	}

	image := ""
	if input.Image != "" {
		if image, err = s.resolveImage(ctx, input.Image); err != nil {
			return nil, err
		}
	}

	recipe := &models.Recipe{
		ID:          recipeID,
		Name:        input.Name,
		Image:       image,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}
	if err := s.recipeRepo.Update(ctx, recipe, lines, tags); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, fmt.Errorf("%w: duplicate ingredient in recipe", ErrConflict)
		}
		return nil, err
	}

	return s.Get(ctx, recipeID, userID)
}

// Delete removes the recipe and all junction/relation rows referencing it.
func (s *RecipeService) Delete(ctx context.Context, recipeID int64, userID, role string) error {
	existing, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: recipe %d", ErrNotFound, recipeID)
		}
		return err
	}
	if existing.AuthorID != userID && role != "admin" {
		return fmt.Errorf("%w: only the author may delete this recipe", ErrForbidden)
	}
	return s.recipeRepo.Delete(ctx, recipeID)
}

func (s *RecipeService) Get(ctx context.Context, recipeID int64, viewerID string) (*RecipeView, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipe %d", ErrNotFound, recipeID)
		}
		return nil, err
	}
	view := RecipeView{Recipe: *recipe}
	if err := s.decorate(ctx, &view, viewerID); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *RecipeService) List(ctx context.Context, filter repository.RecipeFilter, viewerID string) ([]RecipeView, int64, error) {
	recipes, total, err := s.recipeRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	views := make([]RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		view := RecipeView{Recipe: recipe}
		if err := s.decorate(ctx, &view, viewerID); err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

func (s *RecipeService) decorate(ctx context.Context, view *RecipeView, viewerID string) error {
	if viewerID == "" {
		return nil
	}
	var err error
	if view.IsFavorited, err = s.favorites.Exists(ctx, viewerID, view.Recipe.ID); err != nil {
		return err
	}
	if view.IsInShoppingCart, err = s.cart.Exists(ctx, viewerID, view.Recipe.ID); err != nil {
		return err
	}
	return nil
}

// validate enforces the composer's invariants and resolves tag/ingredient
// references. It never writes.
func (s *RecipeService) validate(ctx context.Context, input RecipeInput) ([]models.RecipeIngredient, []models.Tag, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, nil, fmt.Errorf("%w: text is required", ErrValidation)
	}
	if input.CookingTime < 1 {
		return nil, nil, fmt.Errorf("%w: cooking_time must be at least 1", ErrValidation)
	}
	if len(input.Ingredients) == 0 {
		return nil, nil, fmt.Errorf("%w: recipe needs at least one ingredient", ErrValidation)
	}
	if len(input.TagIDs) == 0 {
		return nil, nil, fmt.Errorf("%w: recipe needs at least one tag", ErrValidation)
	}

	seen := make(map[int64]bool, len(input.Ingredients))
	ingredientIDs := make([]int64, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		if line.Amount <= 0 {
			return nil, nil, fmt.Errorf("%w: ingredient amount must be greater than zero", ErrValidation)
		}
		if seen[line.ID] {
			return nil, nil, fmt.Errorf("%w: duplicate ingredient %d in payload", ErrConflict, line.ID)
		}
		seen[line.ID] = true
		ingredientIDs = append(ingredientIDs, line.ID)
	}

	ingredients, err := s.ingredientRepo.GetByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(ingredients) != len(ingredientIDs) {
		return nil, nil, fmt.Errorf("%w: ingredient does not exist", ErrNotFound)
	}

	tagIDs := uniqueIDs(input.TagIDs)
	tags, err := s.tagRepo.GetByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, nil, fmt.Errorf("%w: tag does not exist", ErrNotFound)
	}

	lines := make([]models.RecipeIngredient, 0, len(input.Ingredients))
	for _, line := range input.Ingredients {
		lines = append(lines, models.RecipeIngredient{
			IngredientID: line.ID,
			Amount:       line.Amount,
		})
	}
	return lines, tags, nil
}

// resolveImage turns a base64 data URI into a stored object URL. Anything
// that is not a data URI is treated as an existing opaque reference and kept
// unchanged.
func (s *RecipeService) resolveImage(ctx context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	meta, payload, found := strings.Cut(image, ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return "", fmt.Errorf("%w: image must be a base64 data URI", ErrValidation)
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: image is not valid base64", ErrValidation)
	}

	ext := "img"
	if _, sub, ok := strings.Cut(contentType, "/"); ok && sub != "" {
		ext = sub
	}
	key := fmt.Sprintf("recipes/images/%s.%s", uuid.New().String(), ext)

	url, err := s.images.Upload(ctx, key, bytes.NewReader(raw), contentType)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
