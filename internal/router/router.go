package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/boxport/boxport-backend/internal/config"
	"github.com/boxport/boxport-backend/internal/handlers"
	"github.com/boxport/boxport-backend/internal/middleware"
	"github.com/boxport/boxport-backend/internal/services"
	"github.com/boxport/boxport-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	storage, err := services.NewS3Storage(cfg)
	if err != nil {
		return nil, err
	}

	scopeService := services.NewScopeService(db)
	inviteService := services.NewInviteService(db, scopeService)
	catalogService := services.NewCatalogService(db)
	itemService := services.NewItemService(db, catalogService, storage)
	moveCoordinator := services.NewMoveCoordinator(catalogService)
	authService := services.NewAuthService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, inviteService)
	inviteHandler := handlers.NewInviteHandler(inviteService, cfg)
	locationHandler := handlers.NewLocationHandler(catalogService, scopeService)
	boxHandler := handlers.NewBoxHandler(catalogService, itemService, scopeService)
	itemHandler := handlers.NewItemHandler(catalogService, itemService, scopeService)
	moveHandler := handlers.NewMoveHandler(moveCoordinator, scopeService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Privileged invite endpoints
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		api.POST("/invite", inviteHandler.CreateInvite)
		api.POST("/accept-invite", inviteHandler.AcceptInvites)
	}

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Everything below operates within the caller's inventory scope.
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			locations := protected.Group("/locations")
			{
				locations.GET("", locationHandler.List)
				locations.POST("", locationHandler.Create)
				locations.DELETE("/:id", locationHandler.Delete)
			}

			boxes := protected.Group("/boxes")
			{
				boxes.GET("", boxHandler.List)
				boxes.POST("", boxHandler.Create)
				boxes.GET("/next-code", boxHandler.NextCode)
				boxes.GET("/code/:code", boxHandler.GetByCode)
				boxes.GET("/:id", boxHandler.Get)
				boxes.DELETE("/:id", boxHandler.Delete)

				boxes.GET("/:id/items", itemHandler.ListForBox)
				boxes.POST("/:id/items", middleware.UploadRateLimit(), itemHandler.Create)

				move := boxes.Group("/:id/move")
				{
					move.GET("", moveHandler.State)
					move.POST("", moveHandler.Enter)
					move.DELETE("", moveHandler.Exit)
					move.POST("/select", moveHandler.ToggleSelect)
					move.POST("/select-all", moveHandler.SelectAll)
					move.POST("/clear", moveHandler.Clear)
					move.PUT("/destination", moveHandler.SetDestination)
					move.POST("/request", moveHandler.Request)
					move.POST("/confirm", moveHandler.Confirm)
				}
			}

			items := protected.Group("/items")
			{
				items.GET("/:id", itemHandler.Get)
				items.PUT("/:id", middleware.UploadRateLimit(), itemHandler.Update)
				items.PUT("/:id/quantity", itemHandler.AdjustQuantity)
				items.DELETE("/:id", itemHandler.Delete)
			}

			protected.GET("/search/items", itemHandler.Search)
		}
	}

	return r, nil
}
