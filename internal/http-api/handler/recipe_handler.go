package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LaHainee/foodgram-project-react/internal/http-api/dto"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/middleware"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/repository"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/service"
)

type RecipeHandler struct {
	svc          *service.RecipeService
	shoppingList *service.ShoppingListService
	authService  service.AuthService
}

func NewRecipeHandler(svc *service.RecipeService, shoppingList *service.ShoppingListService, authService service.AuthService) *RecipeHandler {
	return &RecipeHandler{svc: svc, shoppingList: shoppingList, authService: authService}
}

func (h *RecipeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	optional := middleware.OptionalAuthMiddleware(h.authService)
	required := middleware.AuthMiddleware(h.authService)

	rg.GET("", optional, h.List)
	rg.GET("/download_shopping_cart", required, h.DownloadShoppingCart)
	rg.GET("/:id", optional, h.Get)
	rg.POST("", required, h.Create)
	rg.PUT("/:id", required, h.Update)
	rg.DELETE("/:id", required, h.Delete)
}

// List supports filtering by author, tag slugs (repeated ?tags=), the
// viewer's favorites and shopping cart, plus page/limit pagination.
func (h *RecipeHandler) List(c *gin.Context) {
	viewerID := currentUserID(c)

	filter := repository.RecipeFilter{
		AuthorID: c.Query("author"),
		TagSlugs: c.QueryArray("tags"),
		Page:     1,
		PageSize: 10,
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.PageSize = limit
	}
	if viewerID != "" {
		if c.Query("is_favorited") == "1" {
			filter.FavoritedBy = viewerID
		}
		if c.Query("is_in_shopping_cart") == "1" {
			filter.InCartOf = viewerID
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	views, total, err := h.svc.List(ctx, filter, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]dto.RecipeResponse, 0, len(views))
	for _, view := range views {
		results = append(results, dto.FromRecipeView(view))
	}

	c.JSON(http.StatusOK, dto.PaginatedRecipesResponse{
		Count:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Results:  results,
	})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	view, err := h.svc.Get(ctx, id, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRecipeView(*view))
}

func (h *RecipeHandler) Create(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	view, err := h.svc.Create(ctx, userID, req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromRecipeView(*view))
}

func (h *RecipeHandler) Update(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req dto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	view, err := h.svc.Update(ctx, id, userID, currentUserRole(c), req.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromRecipeView(*view))
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id, userID, currentUserRole(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart exports the viewer's aggregated shopping list as a
// plain-text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	items, err := h.shoppingList.Build(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	body := h.shoppingList.RenderText(items)
	c.Header("Content-Disposition", `attachment; filename="wishlist.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}
