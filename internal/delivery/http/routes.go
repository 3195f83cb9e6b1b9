package http

import (
	"github.com/gin-gonic/gin"
	"github.com/nutrilog/backend/config"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		foods := v1.Group("/foods")
		{
			foods.POST("/search", handler.SearchFoods)
			foods.POST("", handler.ImportFoods)
			foods.GET("", handler.ListFoods)
		}

		pantry := v1.Group("/pantry")
		{
			pantry.POST("", handler.AddPantryItem)
			pantry.GET("", handler.ListPantry)
		}

		recipes := v1.Group("/recipes")
		{
			recipes.POST("", handler.CreateRecipe)
			recipes.POST("/:id/ingredients", handler.AddRecipeIngredient)
			recipes.GET("/:id/ingredients", handler.ListRecipeIngredients)
			recipes.GET("/:id/totals", handler.RecipeTotals)
		}

		entries := v1.Group("/entries")
		{
			entries.POST("", handler.StartEntry)
			entries.POST("/:id/foods", handler.AddEntryFood)
			entries.GET("/:id/foods", handler.ListEntryFoods)
			entries.GET("/:id/totals", handler.EntryTotals)
		}
	}

	return router
}
