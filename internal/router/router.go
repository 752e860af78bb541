// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openprocure/procure-backend/internal/config"
	"github.com/openprocure/procure-backend/internal/handlers"
	"github.com/openprocure/procure-backend/internal/middleware"
	"github.com/openprocure/procure-backend/internal/models"
	"github.com/openprocure/procure-backend/internal/policy"
	"github.com/openprocure/procure-backend/internal/services"
	"github.com/openprocure/procure-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	negotiationService := services.NewNegotiationService(db, notificationService)
	requestService := services.NewRequestService(db, negotiationService, notificationService)
	authService := services.NewAuthService(db, cfg)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	requestHandler := handlers.NewRequestHandler(requestService)
	negotiationHandler := handlers.NewNegotiationHandler(negotiationService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Request lifecycle routes
		requests := v1.Group("/requests")
		requests.Use(middleware.AuthRequired())
		{
			requests.POST("", requestHandler.CreateRequest)
			requests.GET("", requestHandler.SearchRequests)
			requests.GET("/:key", requestHandler.GetRequest)

			// Transitions: GET lists what the caller may do right now,
			// POST executes one of those transitions by id.
			requests.GET("/:key/transitions", requestHandler.GetAvailableTransitions)
			requests.POST("/:key/transitions", requestHandler.ExecuteTransition)

			// Negotiation workflow
			requests.POST("/:key/proposals", negotiationHandler.SubmitProposal)
			requests.GET("/:key/negotiation", negotiationHandler.GetWorkflowState)
			requests.POST("/:key/negotiation/finalize", negotiationHandler.Finalize)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleSuperAdmin, models.RoleAdmin))
		{
			dashboard := admin.Group("/dashboard")
			{
				dashboard.GET("/stats", adminHandler.GetDashboardStats)
			}

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", middleware.PermissionRequired(policy.PermissionManageUsers), adminHandler.GetUsers)
			}
		}
	}

	return r
}
