package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/repository"
)

// ShoppingListItem is one aggregated line of the exported list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// ShoppingListService folds the ingredient lines of every recipe in a user's
// cart into one aggregated list. Read-only; the fold is built per request
// with no shared state.
type ShoppingListService struct {
	cartRepo   *repository.RelationRepository[models.ShoppingCart, int64]
	recipeRepo *repository.RecipeRepo
}

func NewShoppingListService(cartRepo *repository.RelationRepository[models.ShoppingCart, int64], recipeRepo *repository.RecipeRepo) *ShoppingListService {
	return &ShoppingListService{cartRepo: cartRepo, recipeRepo: recipeRepo}
}

// Build aggregates amounts by ingredient identity, in first-seen order.
// Distinct ingredients that happen to share a display name stay separate
// lines, so units are never silently mixed.
func (s *ShoppingListService) Build(ctx context.Context, userID string) ([]ShoppingListItem, error) {
	cart, err := s.cartRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	index := make(map[int64]int) // ingredient id -> position in items
	items := make([]ShoppingListItem, 0)

	for _, row := range cart {
		lines, err := s.recipeRepo.IngredientLines(ctx, row.RecipeID)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			if line.Ingredient == nil {
				continue
			}
			if pos, ok := index[line.IngredientID]; ok {
				items[pos].Amount += line.Amount
				continue
			}
			index[line.IngredientID] = len(items)
			items = append(items, ShoppingListItem{
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			})
		}
	}
	return items, nil
}

// RenderText renders the aggregated list as the downloadable export: one
// line per ingredient, "<name> - <amount> <unit> \n", with a trailing blank
// line.
func (s *ShoppingListService) RenderText(items []ShoppingListItem) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "%s - %d %s \n", item.Name, item.Amount, item.MeasurementUnit)
	}
	b.WriteString("\n")
	return b.String()
}
