package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LaHainee/foodgram-project-react/database"
	"github.com/LaHainee/foodgram-project-react/internal/cache"
	"github.com/LaHainee/foodgram-project-react/internal/config"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/handler"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/middleware"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/repository"
	"github.com/LaHainee/foodgram-project-react/internal/http-api/service"
	"github.com/LaHainee/foodgram-project-react/internal/logger"
	"github.com/LaHainee/foodgram-project-react/internal/storage/minio"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// The cache is optional: a miss on startup degrades to direct DB reads.
	cacheClient, err := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		log.Warn("redis unavailable, reference data will not be cached", "error", err)
		cacheClient = nil
	}

	imageStore, err := minio.NewClient(cfg)
	if err != nil {
		log.Error("object store connection failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	recipeRepo := repository.NewRecipeRepo(db)
	tagRepo := repository.NewTagRepo(db)
	ingredientRepo := repository.NewIngredientRepo(db)
	followRepo := repository.NewFollowRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	cartRepo := repository.NewShoppingCartRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	tagService := service.NewTagService(tagRepo, cacheClient)
	ingredientService := service.NewIngredientService(ingredientRepo, cacheClient)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, favoriteRepo, cartRepo, imageStore)
	favoriteService := service.NewFavoriteService(favoriteRepo, recipeRepo)
	cartService := service.NewShoppingCartService(cartRepo, recipeRepo)
	followService := service.NewFollowService(followRepo, userRepo, recipeRepo)
	shoppingListService := service.NewShoppingListService(cartRepo, recipeRepo)

	// Handlers
	accessTTLSeconds := int64(cfg.AccessTokenTTL / time.Second)
	authHandler := handler.NewAuthHandler(authService, accessTTLSeconds)
	tagHandler := handler.NewTagHandler(tagService, authService)
	ingredientHandler := handler.NewIngredientHandler(ingredientService, authService)
	recipeHandler := handler.NewRecipeHandler(recipeService, shoppingListService, authService)
	relationHandler := handler.NewRelationHandler(favoriteService, cartService, followService, authService)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"))
	tagHandler.RegisterRoutes(api.Group("/tags"))
	ingredientHandler.RegisterRoutes(api.Group("/ingredients"))

	recipes := api.Group("/recipes")
	users := api.Group("/users")
	recipeHandler.RegisterRoutes(recipes)
	relationHandler.RegisterRoutes(recipes, users)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		log.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	if cacheClient != nil {
		cacheClient.Close()
	}
}
