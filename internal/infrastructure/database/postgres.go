package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sangkips/cactus-admin-api/internal/config"
	"github.com/sangkips/cactus-admin-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, env string, log zerolog.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if env == "development" {
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

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

// AutoMigrate creates or updates the customers and orders tables.
func AutoMigrate(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")

	if err := db.AutoMigrate(
		&entity.Customer{},
		&entity.Order{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}
