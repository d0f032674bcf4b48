package dto

import (
	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/service"
)

// IngredientLineRequest is one (ingredient id, amount) pair of a submitted
// recipe. Amount validation beyond presence lives in the recipe service.
type IngredientLineRequest struct {
	ID     int64 `json:"id" binding:"required"`
	Amount int   `json:"amount" binding:"required"`
}

// RecipeRequest is used for POST /api/recipes and PUT /api/recipes/:id.
// Image is a base64 data URI; it may be omitted on update to keep the stored
// image.
type RecipeRequest struct {
	Ingredients []IngredientLineRequest `json:"ingredients" binding:"required"`
	Tags        []int64                 `json:"tags" binding:"required"`
	Image       string                  `json:"image,omitempty"`
	Name        string                  `json:"name" binding:"required,max=200"`
	Text        string                  `json:"text" binding:"required"`
	CookingTime int                     `json:"cooking_time" binding:"required"`
}

func (r RecipeRequest) ToInput() service.RecipeInput {
	lines := make([]service.IngredientLine, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		lines = append(lines, service.IngredientLine{ID: line.ID, Amount: line.Amount})
	}
	return service.RecipeInput{
		Name:        r.Name,
		Image:       r.Image,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
		Ingredients: lines,
	}
}

// RecipeIngredientResponse flattens a junction row with its ingredient.
type RecipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe projection.
type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []models.Tag               `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeMinimal is the projection returned by favorite/cart endpoints.
type RecipeMinimal struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type PaginatedRecipesResponse struct {
	Count    int64            `json:"count"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Results  []RecipeResponse `json:"results"`
}

func FromRecipeView(view service.RecipeView) RecipeResponse {
	recipe := view.Recipe

	ingredients := make([]RecipeIngredientResponse, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		item := RecipeIngredientResponse{ID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	resp := RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Ingredients:      ingredients,
		IsFavorited:      view.IsFavorited,
		IsInShoppingCart: view.IsInShoppingCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
	if recipe.Author != nil {
		resp.Author = FromUser(*recipe.Author)
	}
	return resp
}

func FromRecipeMinimal(recipe models.Recipe) RecipeMinimal {
	return RecipeMinimal{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}
