package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
)

// RecipeFilter narrows List results. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID    string
	TagSlugs    []string
	FavoritedBy string // user id
	InCartOf    string // user id
	Page        int
	PageSize    int
}

type RecipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) *RecipeRepo {
	return &RecipeRepo{db: db}
}

func (r *RecipeRepo) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	// the filtered query is built twice so the count's column selection never
	// bleeds into the page query
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Recipe{})
		if filter.AuthorID != "" {
			q = q.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if len(filter.TagSlugs) > 0 {
			q = q.Joins("JOIN recipe_tags rt ON rt.recipe_id = recipes.id").
				Joins("JOIN tags t ON t.id = rt.tag_id").
				Where("t.slug IN ?", filter.TagSlugs)
		}
		if filter.FavoritedBy != "" {
			q = q.Joins("JOIN favorites fav ON fav.recipe_id = recipes.id AND fav.user_id = ?", filter.FavoritedBy)
		}
		if filter.InCartOf != "" {
			q = q.Joins("JOIN shopping_cart sc ON sc.recipe_id = recipes.id AND sc.user_id = ?", filter.InCartOf)
		}
		return q
	}

	var total int64
	if err := filtered().Distinct("recipes.id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count recipes: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	var list []models.Recipe
	if err := filtered().Distinct().
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.pub_date desc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list recipes: %w", err)
	}

	return list, total, nil
}

func (r *RecipeRepo) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Create persists the recipe together with its ingredient lines and tag
// associations in a single transaction. Either the whole recipe exists
// afterwards, or nothing does.
func (r *RecipeRepo) Create(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient, tags []models.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients", "Author").Create(recipe).Error; err != nil {
			return fmt.Errorf("create recipe: %w", err)
		}
		for i := range lines {
			lines[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("create ingredient lines: %w", err)
		}
		if err := tx.Model(recipe).Association("Tags").Append(&tags); err != nil {
			return fmt.Errorf("append tags: %w", err)
		}
		return nil
	})
}

// Update overwrites the scalar fields and replaces the full ingredient line
// and tag sets. The delete-then-reinsert happens inside the same transaction
// as the scalar update, so a reader never observes a recipe with zero
// ingredients mid-update. An empty recipe.Image keeps the stored reference.
func (r *RecipeRepo) Update(ctx context.Context, recipe *models.Recipe, lines []models.RecipeIngredient, tags []models.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		}
		if recipe.Image != "" {
			updates["image"] = recipe.Image
		}
		result := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("update recipe: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("clear ingredient lines: %w", err)
		}
		for i := range lines {
			lines[i].ID = 0
			lines[i].RecipeID = recipe.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("recreate ingredient lines: %w", err)
		}

		if err := tx.Model(&models.Recipe{ID: recipe.ID}).Association("Tags").Replace(&tags); err != nil {
			return fmt.Errorf("replace tags: %w", err)
		}
		return nil
	})
}

// Delete removes the recipe and every junction/relation row referencing it,
// so no dangling rows survive regardless of store-level cascade support.
func (r *RecipeRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("delete ingredient lines: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("delete favorites: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return fmt.Errorf("delete shopping cart rows: %w", err)
		}
		if err := tx.Model(&models.Recipe{ID: id}).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}

		result := tx.Delete(&models.Recipe{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete recipe: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// IngredientLines returns the recipe's junction rows with their ingredients.
func (r *RecipeRepo) IngredientLines(ctx context.Context, recipeID int64) ([]models.RecipeIngredient, error) {
	var lines []models.RecipeIngredient
	if err := r.db.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id = ?", recipeID).
		Order("id asc").
		Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("get ingredient lines: %w", err)
	}
	return lines, nil
}

func (r *RecipeRepo) ListByAuthor(ctx context.Context, authorID string) ([]models.Recipe, error) {
	var list []models.Recipe
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list recipes by author: %w", err)
	}
	return list, nil
}

func (r *RecipeRepo) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count recipes by author: %w", err)
	}
	return count, nil
}
