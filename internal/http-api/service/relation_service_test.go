package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/repository"
)

func newFavoriteService(db *gorm.DB) *FavoriteService {
	return NewFavoriteService(repository.NewFavoriteRepository(db), repository.NewRecipeRepo(db))
}

func TestFavorite_ToggleCycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	fan := createTestUser(t, db, "fan")
	flour := createTestIngredient(t, db, "flour", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")

	created, err := newRecipeService(db, &stubImageStore{}).Create(ctx, author.ID, validInput(flour.ID, breakfast.ID))
	require.NoError(t, err)
	recipeID := created.Recipe.ID

	favorites := newFavoriteService(db)

	recipe, err := favorites.Add(ctx, fan.ID, recipeID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", recipe.Name)

	exists, err := favorites.Exists(ctx, fan.ID, recipeID)
	require.NoError(t, err)
	assert.True(t, exists)

	// adding again is a visible conflict, not an upsert
	_, err = favorites.Add(ctx, fan.ID, recipeID)
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, favorites.Remove(ctx, fan.ID, recipeID))

	exists, err = favorites.Exists(ctx, fan.ID, recipeID)
	require.NoError(t, err)
	assert.False(t, exists)

	// removing what is not there is NotFound
	err = favorites.Remove(ctx, fan.ID, recipeID)
	assert.ErrorIs(t, err, ErrNotFound)

	// the pair can be re-added after removal
	_, err = favorites.Add(ctx, fan.ID, recipeID)
	assert.NoError(t, err)
}

func TestFavorite_UnknownRecipe(t *testing.T) {
	db := setupTestDB(t)
	fan := createTestUser(t, db, "fan")

	_, err := newFavoriteService(db).Add(context.Background(), fan.ID, 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFavorite_IndependentPerUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	flour := createTestIngredient(t, db, "flour", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")

	created, err := newRecipeService(db, &stubImageStore{}).Create(ctx, author.ID, validInput(flour.ID, breakfast.ID))
	require.NoError(t, err)

	favorites := newFavoriteService(db)
	_, err = favorites.Add(ctx, alice.ID, created.Recipe.ID)
	require.NoError(t, err)

	exists, err := favorites.Exists(ctx, bob.ID, created.Recipe.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestShoppingCart_SeparateFromFavorites(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	fan := createTestUser(t, db, "fan")
	flour := createTestIngredient(t, db, "flour", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")

	created, err := newRecipeService(db, &stubImageStore{}).Create(ctx, author.ID, validInput(flour.ID, breakfast.ID))
	require.NoError(t, err)

	cart := NewShoppingCartService(repository.NewShoppingCartRepository(db), repository.NewRecipeRepo(db))
	_, err = cart.Add(ctx, fan.ID, created.Recipe.ID)
	require.NoError(t, err)

	// same pair in the other relation stays untouched
	exists, err := newFavoriteService(db).Exists(ctx, fan.ID, created.Recipe.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFollow_SubscribeCycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	reader := createTestUser(t, db, "reader")
	author := createTestUser(t, db, "author")

	follows := NewFollowService(repository.NewFollowRepository(db), repository.NewUserRepository(db), repository.NewRecipeRepo(db))

	subscribed, err := follows.Subscribe(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.Username, subscribed.Username)

	ok, err := follows.IsSubscribed(ctx, reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = follows.Subscribe(ctx, reader.ID, author.ID)
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, follows.Unsubscribe(ctx, reader.ID, author.ID))

	err = follows.Unsubscribe(ctx, reader.ID, author.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFollow_SelfSubscribeRejected(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "narcissus")

	follows := NewFollowService(repository.NewFollowRepository(db), repository.NewUserRepository(db), repository.NewRecipeRepo(db))

	_, err := follows.Subscribe(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFollow_UnknownAuthor(t *testing.T) {
	db := setupTestDB(t)
	reader := createTestUser(t, db, "reader")

	follows := NewFollowService(repository.NewFollowRepository(db), repository.NewUserRepository(db), repository.NewRecipeRepo(db))

	_, err := follows.Subscribe(context.Background(), reader.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFollow_SubscriptionsFeed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	reader := createTestUser(t, db, "reader")
	author := createTestUser(t, db, "author")
	flour := createTestIngredient(t, db, "flour", "g")
	breakfast := createTestTag(t, db, "breakfast", "breakfast")

	recipes := newRecipeService(db, &stubImageStore{})
	_, err := recipes.Create(ctx, author.ID, validInput(flour.ID, breakfast.ID))
	require.NoError(t, err)

	soup := validInput(flour.ID, breakfast.ID)
	soup.Name = "Soup"
	_, err = recipes.Create(ctx, author.ID, soup)
	require.NoError(t, err)

	follows := NewFollowService(repository.NewFollowRepository(db), repository.NewUserRepository(db), repository.NewRecipeRepo(db))
	_, err = follows.Subscribe(ctx, reader.ID, author.ID)
	require.NoError(t, err)

	subs, err := follows.Subscriptions(ctx, reader.ID)
	require.NoError(t, err)

	require.Len(t, subs, 1)
	assert.Equal(t, author.ID, subs[0].Author.ID)
	assert.Equal(t, int64(2), subs[0].RecipesCount)
	assert.Len(t, subs[0].Recipes, 2)
}
