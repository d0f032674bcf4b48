package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/repository"
)

func TestShoppingListBuild_AggregatesByIngredient(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	buyer := createTestUser(t, db, "buyer")
	flour := createTestIngredient(t, db, "flour", "g")
	sugar := createTestIngredient(t, db, "sugar", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")

	recipes := newRecipeService(db, &stubImageStore{})

	pancakes := validInput(flour.ID, breakfast.ID)
	pancakes.Ingredients = []IngredientLine{
		{ID: flour.ID, Amount: 200},
		{ID: sugar.ID, Amount: 50},
	}
	first, err := recipes.Create(ctx, author.ID, pancakes)
	require.NoError(t, err)

	bread := validInput(flour.ID, breakfast.ID)
	bread.Name = "Bread"
	bread.Ingredients = []IngredientLine{{ID: flour.ID, Amount: 100}}
	second, err := recipes.Create(ctx, author.ID, bread)
	require.NoError(t, err)

	cart := NewShoppingCartService(repository.NewShoppingCartRepository(db), repository.NewRecipeRepo(db))
	_, err = cart.Add(ctx, buyer.ID, first.Recipe.ID)
	require.NoError(t, err)
	_, err = cart.Add(ctx, buyer.ID, second.Recipe.ID)
	require.NoError(t, err)

	lists := NewShoppingListService(repository.NewShoppingCartRepository(db), repository.NewRecipeRepo(db))
	items, err := lists.Build(ctx, buyer.ID)
	require.NoError(t, err)

	// amounts folded per ingredient, first-seen order preserved
	require.Len(t, items, 2)
	assert.Equal(t, ShoppingListItem{Name: "flour", MeasurementUnit: "g", Amount: 300}, items[0])
	assert.Equal(t, ShoppingListItem{Name: "sugar", MeasurementUnit: "g", Amount: 50}, items[1])
}

func TestShoppingListBuild_EmptyCart(t *testing.T) {
	db := setupTestDB(t)
	buyer := createTestUser(t, db, "buyer")

	lists := NewShoppingListService(repository.NewShoppingCartRepository(db), repository.NewRecipeRepo(db))
	items, err := lists.Build(context.Background(), buyer.ID)

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestShoppingListRenderText(t *testing.T) {
	lists := NewShoppingListService(nil, nil)

	out := lists.RenderText([]ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", Amount: 300},
		{Name: "milk", MeasurementUnit: "ml", Amount: 500},
	})

	assert.Equal(t, "flour - 300 g \nmilk - 500 ml \n\n", out)
}

func TestShoppingListRenderText_Empty(t *testing.T) {
	lists := NewShoppingListService(nil, nil)
	assert.Equal(t, "\n", lists.RenderText(nil))
}
