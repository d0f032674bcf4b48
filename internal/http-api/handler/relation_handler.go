package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/dto"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/middleware"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/service"
)

// RelationHandler exposes the favorite, shopping cart and subscription
// toggles. All routes require authentication.
type RelationHandler struct {
	favorites   *service.FavoriteService
	cart        *service.ShoppingCartService
	follows     *service.FollowService
	authService service.AuthService
}

func NewRelationHandler(
	favorites *service.FavoriteService,
	cart *service.ShoppingCartService,
	follows *service.FollowService,
	authService service.AuthService,
) *RelationHandler {
	return &RelationHandler{
		favorites:   favorites,
		cart:        cart,
		follows:     follows,
		authService: authService,
	}
}

func (h *RelationHandler) RegisterRoutes(recipes, users *gin.RouterGroup) {
	required := middleware.AuthMiddleware(h.authService)

	recipes.POST("/:id/favorite", required, h.AddFavorite)
	recipes.DELETE("/:id/favorite", required, h.RemoveFavorite)
	recipes.POST("/:id/shopping_cart", required, h.AddToCart)
	recipes.DELETE("/:id/shopping_cart", required, h.RemoveFromCart)

	users.GET("/subscriptions", required, h.Subscriptions)
	users.POST("/:id/subscribe", required, h.Subscribe)
	users.DELETE("/:id/subscribe", required, h.Unsubscribe)
}

func recipeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return 0, false
	}
	return id, true
}

func (h *RelationHandler) AddFavorite(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := h.favorites.Add(ctx, currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromRecipeMinimal(*recipe))
}

func (h *RelationHandler) RemoveFavorite(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.favorites.Remove(ctx, currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RelationHandler) AddToCart(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipe, err := h.cart.Add(ctx, currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromRecipeMinimal(*recipe))
}

func (h *RelationHandler) RemoveFromCart(c *gin.Context) {
	id, ok := recipeIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.cart.Remove(ctx, currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RelationHandler) Subscribe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	author, err := h.follows.Subscribe(ctx, currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromUser(*author))
}

func (h *RelationHandler) Unsubscribe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.follows.Unsubscribe(ctx, currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions returns every followed author with their recipes.
func (h *RelationHandler) Subscriptions(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	subs, err := h.follows.Subscriptions(ctx, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]dto.SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		results = append(results, dto.FromSubscription(sub))
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(results),
		"results": results,
	})
}
