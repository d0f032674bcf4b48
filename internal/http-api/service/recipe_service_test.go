package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/models"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/repository"
)

func newRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return NewRecipeService(
		repository.NewRecipeRepo(db),
		repository.NewTagRepo(db),
		repository.NewIngredientRepo(db),
		repository.NewFavoriteRepository(db),
		repository.NewShoppingCartRepository(db),
		images,
	)
}

func testImageURI() string {
	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	return "data:image/png;base64," + payload
}

func validInput(ingredientID, tagID int64) RecipeInput {
	return RecipeInput{
		Name:        "Pancakes",
		Image:       testImageURI(),
		Text:        "Mix and fry.",
		CookingTime: 20,
		TagIDs:      []int64{tagID},
		Ingredients: []IngredientLine{{ID: ingredientID, Amount: 200}},
	}
}

func TestRecipeCreate_Success(t *testing.T) {
	db := setupTestDB(t)
	store := &stubImageStore{}
	svc := newRecipeService(db, store)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	flour := createTestIngredient(t, db, "flour", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")

	view, err := svc.Create(ctx, author.ID, validInput(flour.ID, breakfast.ID))

	require.NoError(t, err)
	assert.Equal(t, "Pancakes", view.Recipe.Name)
	assert.Equal(t, author.ID, view.Recipe.AuthorID)
	assert.Len(t, view.Recipe.Ingredients, 1)
	assert.Equal(t, 200, view.Recipe.Ingredients[0].Amount)
	assert.Len(t, view.Recipe.Tags, 1)
	assert.Equal(t, 1, store.uploads)
	assert.Contains(t, view.Recipe.Image, "https://cdn.test/recipes/images/")
}

func TestRecipeCreate_ValidationRejectsWithoutWriting(t *testing.T) {
	db := setupTestDB(t)
	svc := newRecipeService(db, &stubImageStore{})
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	flour := createTestIngredient(t, db, "flour", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")

	cases := []struct {
		name  string
		mod   func(*RecipeInput)
		class error
	}{
		{"empty name", func(i *RecipeInput) { i.Name = " " }, ErrValidation},
		{"empty text", func(i *RecipeInput) { i.Text = "" }, ErrValidation},
		{"zero cooking time", func(i *RecipeInput) { i.CookingTime = 0 }, ErrValidation},
		{"no ingredients", func(i *RecipeInput) { i.Ingredients = nil }, ErrValidation},
		{"no tags", func(i *RecipeInput) { i.TagIDs = nil }, ErrValidation},
		{"zero amount", func(i *RecipeInput) { i.Ingredients[0].Amount = 0 }, ErrValidation},
		{"missing image", func(i *RecipeInput) { i.Image = "" }, ErrValidation},
		{"unknown ingredient", func(i *RecipeInput) { i.Ingredients[0].ID = 999 }, ErrNotFound},
		{"unknown tag", func(i *RecipeInput) { i.TagIDs = []int64{999} }, ErrNotFound},
		{
			"duplicate ingredient",
			func(i *RecipeInput) {
				i.Ingredients = append(i.Ingredients, IngredientLine{ID: i.Ingredients[0].ID, Amount: 50})
			},
			ErrConflict,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput(flour.ID, breakfast.ID)
			tc.mod(&input)

			_, err := svc.Create(ctx, author.ID, input)
			assert.ErrorIs(t, err, tc.class)
		})
	}

	// nothing may have been persisted by the rejected submissions
	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecipeUpdate_ReplacesLinesAndTags(t *testing.T) {
	db := setupTestDB(t)
	svc := newRecipeService(db, &stubImageStore{})
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	flour := createTestIngredient(t, db, "flour", "g")
	sugar := createTestIngredient(t, db, "sugar", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")
	dinner := createTestTag(t, db, "dinner", "dinner")

	created, err := svc.Create(ctx, author.ID, validInput(flour.ID, breakfast.ID))
	require.NoError(t, err)

	update := RecipeInput{
		Name:        "Sugar pancakes",
		Text:        "Mix, sweeten, fry.",
		CookingTime: 25,
		TagIDs:      []int64{dinner.ID},
		Ingredients: []IngredientLine{{ID: sugar.ID, Amount: 50}},
	}
	updated, err := svc.Update(ctx, created.Recipe.ID, author.ID, "user", update)
	require.NoError(t, err)

	assert.Equal(t, "Sugar pancakes", updated.Recipe.Name)
	require.Len(t, updated.Recipe.Ingredients, 1)
	assert.Equal(t, sugar.ID, updated.Recipe.Ingredients[0].IngredientID)
	require.Len(t, updated.Recipe.Tags, 1)
	assert.Equal(t, "dinner", updated.Recipe.Tags[0].Slug)
	// omitted image keeps the stored reference
	assert.Equal(t, created.Recipe.Image, updated.Recipe.Image)

	// the old line set is gone, not orphaned
	var lines int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&lines).Error)
	assert.Equal(t, int64(1), lines)
}

func TestRecipeUpdate_ResubmitSamePayload(t *testing.T) {
	db := setupTestDB(t)
	svc := newRecipeService(db, &stubImageStore{})
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	flour := createTestIngredient(t, db, "flour", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")

	input := validInput(flour.ID, breakfast.ID)
	created, err := svc.Create(ctx, author.ID, input)
	require.NoError(t, err)

	// resubmitting the identical payload must not trip the per-recipe
	// ingredient uniqueness
	input.Image = ""
	updated, err := svc.Update(ctx, created.Recipe.ID, author.ID, "user", input)
	require.NoError(t, err)
	assert.Len(t, updated.Recipe.Ingredients, 1)
}

func TestRecipeUpdate_ForbiddenForNonAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := newRecipeService(db, &stubImageStore{})
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	flour := createTestIngredient(t, db, "flour", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")

	created, err := svc.Create(ctx, author.ID, validInput(flour.ID, breakfast.ID))
	require.NoError(t, err)

	input := validInput(flour.ID, breakfast.ID)
	_, err = svc.Update(ctx, created.Recipe.ID, other.ID, "user", input)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(ctx, created.Recipe.ID, other.ID, "user")
	assert.ErrorIs(t, err, ErrForbidden)

	// admins may edit anything
	_, err = svc.Update(ctx, created.Recipe.ID, other.ID, "admin", input)
	assert.NoError(t, err)
}

func TestRecipeDelete_RemovesRelationRows(t *testing.T) {
	db := setupTestDB(t)
	svc := newRecipeService(db, &stubImageStore{})
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	fan := createTestUser(t, db, "fan")
	flour := createTestIngredient(t, db, "flour", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")

	created, err := svc.Create(ctx, author.ID, validInput(flour.ID, breakfast.ID))
	require.NoError(t, err)
	recipeID := created.Recipe.ID

	favorites := NewFavoriteService(repository.NewFavoriteRepository(db), repository.NewRecipeRepo(db))
	cart := NewShoppingCartService(repository.NewShoppingCartRepository(db), repository.NewRecipeRepo(db))
	_, err = favorites.Add(ctx, fan.ID, recipeID)
	require.NoError(t, err)
	_, err = cart.Add(ctx, fan.ID, recipeID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, recipeID, author.ID, "user"))

	_, err = svc.Get(ctx, recipeID, "")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, model := range []any{&models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestRecipeList_FiltersAndFlags(t *testing.T) {
	db := setupTestDB(t)
	svc := newRecipeService(db, &stubImageStore{})
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	viewer := createTestUser(t, db, "viewer")
	flour := createTestIngredient(t, db, "flour", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")
	dinner := createTestTag(t, db, "dinner", "dinner")

	first, err := svc.Create(ctx, author.ID, validInput(flour.ID, breakfast.ID))
	require.NoError(t, err)

	second := validInput(flour.ID, dinner.ID)
	second.Name = "Soup"
	_, err = svc.Create(ctx, author.ID, second)
	require.NoError(t, err)

	favorites := NewFavoriteService(repository.NewFavoriteRepository(db), repository.NewRecipeRepo(db))
	_, err = favorites.Add(ctx, viewer.ID, first.Recipe.ID)
	require.NoError(t, err)

	// tag filter
	views, total, err := svc.List(ctx, repository.RecipeFilter{TagSlugs: []string{"breakfast"}, Page: 1, PageSize: 10}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.Equal(t, "Pancakes", views[0].Recipe.Name)
	assert.False(t, views[0].IsFavorited)

	// favorited-by filter with viewer flags
	views, total, err = svc.List(ctx, repository.RecipeFilter{FavoritedBy: viewer.ID, Page: 1, PageSize: 10}, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsFavorited)
	assert.False(t, views[0].IsInShoppingCart)

	// anonymous listing sees everything, newest first
	views, total, err = svc.List(ctx, repository.RecipeFilter{Page: 1, PageSize: 10}, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 2)
}
