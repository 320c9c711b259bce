package routes

import (
	"time"

	"github.com/agms/backoffice-api/internal/config"
	domainRepo "github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/agms/backoffice-api/internal/presentation/http/handler"
	"github.com/agms/backoffice-api/internal/presentation/http/middleware"
	"github.com/agms/backoffice-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth    *handler.AuthHandler
	Item    *handler.ItemHandler
	Agency  *handler.AgencyHandler
	Receipt *handler.ReceiptHandler
	Issue   *handler.IssueHandler
	Payment *handler.PaymentHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Repo: deps.IdempotencyRepo,
	})

	// Items
	items := protected.Group("/items")
	{
		items.GET("", h.Item.List)
		items.POST("", h.Item.Create)
		items.GET("/low-stock", h.Item.LowStock)
		items.GET("/:id", h.Item.Get)
		items.PUT("/:id", h.Item.Update)
		items.DELETE("/:id", h.Item.Delete)
		items.GET("/:id/movements", h.Item.Movements)
		items.GET("/:id/expected-price", h.Item.ExpectedPrice)
	}

	// Agency types
	agencyTypes := protected.Group("/agency-types")
	{
		agencyTypes.GET("", h.Agency.ListTypes)
		agencyTypes.POST("", h.Agency.CreateType)
	}

	// Agencies
	agencies := protected.Group("/agencies")
	{
		agencies.GET("", h.Agency.List)
		agencies.POST("", h.Agency.Create)
		agencies.GET("/:id", h.Agency.Get)
		agencies.PUT("/:id", h.Agency.Update)
	}

	// Receipts (stock in); document creation honors Idempotency-Key
	receipts := protected.Group("/receipts")
	{
		receipts.GET("", h.Receipt.List)
		receipts.POST("", idempotency, h.Receipt.Create)
		receipts.GET("/:id", h.Receipt.Get)
	}

	// Issues (stock out workflow)
	issues := protected.Group("/issues")
	{
		issues.GET("", h.Issue.List)
		issues.POST("", idempotency, h.Issue.Create)
		issues.GET("/:id", h.Issue.Get)
		issues.POST("/:id/approve", h.Issue.Approve)
		issues.POST("/:id/reject", h.Issue.Reject)
		issues.POST("/:id/deliver", h.Issue.Deliver)
	}

	// Payments (debt collection)
	payments := protected.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.POST("", idempotency, h.Payment.Create)
		payments.GET("/:id", h.Payment.Get)
		payments.POST("/:id/settle", h.Payment.Settle)
	}
}
