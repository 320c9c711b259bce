package main

import (
	"log"
	"os"

	"github.com/agms/backoffice-api/internal/application/service"
	"github.com/agms/backoffice-api/internal/config"
	"github.com/agms/backoffice-api/internal/infrastructure/database"
	"github.com/agms/backoffice-api/internal/infrastructure/repository"
	"github.com/agms/backoffice-api/internal/presentation/http/handler"
	"github.com/agms/backoffice-api/internal/presentation/http/routes"
	"github.com/agms/backoffice-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	agencyRepo := repository.NewAgencyRepository(db)
	agencyTypeRepo := repository.NewAgencyTypeRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	receiptLineRepo := repository.NewReceiptLineRepository(db)
	issueRepo := repository.NewIssueRepository(db)
	issueLineRepo := repository.NewIssueLineRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	itemService := service.NewItemService(itemRepo, receiptLineRepo, issueLineRepo)
	agencyService := service.NewAgencyService(agencyRepo, agencyTypeRepo)
	receiptService := service.NewReceiptService(txManager, receiptRepo, receiptLineRepo, itemRepo, agencyRepo)
	issueService := service.NewIssueService(txManager, issueRepo, issueLineRepo, itemRepo, agencyRepo)
	paymentService := service.NewPaymentService(txManager, paymentRepo, agencyRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Item:    handler.NewItemHandler(itemService, &cfg.Inventory),
		Agency:  handler.NewAgencyHandler(agencyService),
		Receipt: handler.NewReceiptHandler(receiptService),
		Issue:   handler.NewIssueHandler(issueService),
		Payment: handler.NewPaymentHandler(paymentService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
