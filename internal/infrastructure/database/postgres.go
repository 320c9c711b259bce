package database

import (
	"fmt"
	"log"

	"github.com/agms/backoffice-api/internal/config"
	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},

		// Catalog entities
		&entity.Item{},
		&entity.AgencyType{},
		&entity.Agency{},

		// Document entities
		&entity.Receipt{},
		&entity.ReceiptLine{},
		&entity.Issue{},
		&entity.IssueLine{},
		&entity.Payment{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default agency types and the
// back-office staff account
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create default agency types with their debt ceilings
	agencyTypes := []entity.AgencyType{
		{Name: "Level 1", MaxDebt: decimal.NewFromInt(20000)},
		{Name: "Level 2", MaxDebt: decimal.NewFromInt(50000)},
		{Name: "Wholesale", MaxDebt: decimal.NewFromInt(100000)},
	}

	for i := range agencyTypes {
		var existing entity.AgencyType
		if err := db.Where("name = ?", agencyTypes[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&agencyTypes[i]).Error; err != nil {
				log.Printf("Warning: failed to create agency type %s: %v", agencyTypes[i].Name, err)
			}
		}
	}

	// Create the staff account if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Back Office"
				}
				// Split admin name into first and last name
				firstName := adminName
				lastName := ""
				for i, c := range adminName {
					if c == ' ' {
						firstName = adminName[:i]
						lastName = adminName[i+1:]
						break
					}
				}
				adminUser := entity.User{
					ID:        uuid.New(),
					FirstName: firstName,
					LastName:  lastName,
					Email:     adminEmail,
					Password:  string(hashedPassword),
				}
				if err := db.Create(&adminUser).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Admin user created: %s", adminEmail)
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
