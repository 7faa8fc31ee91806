package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/translab/translab-api/internal/config"
	"github.com/translab/translab-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Staff and tenancy
		&entity.User{},
		&entity.Center{},
		&entity.Branch{},
		&entity.BranchMembership{},
		&entity.Customer{},

		// Ledger
		&entity.Order{},
		&entity.Receipt{},
		&entity.AuditLog{},
		&entity.OutboxEvent{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData creates the bootstrap owner account when configured
func SeedDefaultData(db *gorm.DB) error {
	ownerEmail := viper.GetString("OWNER_EMAIL")
	ownerPassword := viper.GetString("OWNER_PASSWORD")
	ownerName := viper.GetString("OWNER_NAME")

	if ownerEmail == "" || ownerPassword == "" {
		return nil
	}

	var existing entity.User
	if err := db.Where("email = ?", ownerEmail).First(&existing).Error; err == nil {
		log.Printf("Owner user already exists: %s", ownerEmail)
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(ownerPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash owner password: %w", err)
	}

	if ownerName == "" {
		ownerName = "Owner"
	}

	owner := entity.User{
		ID:        uuid.New(),
		FirstName: ownerName,
		Email:     ownerEmail,
		Password:  string(hashedPassword),
		Role:      entity.RoleOwner,
	}
	if err := db.Create(&owner).Error; err != nil {
		return fmt.Errorf("failed to create owner user: %w", err)
	}

	log.Printf("Owner user created: %s", ownerEmail)
	return nil
}
