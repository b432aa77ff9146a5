package config

import (
	"errors"
	"fmt"

	"github.com/nusadigital/agency-site/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the Supabase Postgres connection and migrates the tables this
// service owns. The orders table belongs to the checkout flow; it is only
// created here when missing so local environments work.
func InitDB(cfg *Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if !db.Migrator().HasTable(&models.Order{}) {
		if err := db.Migrator().CreateTable(&models.Order{}); err != nil {
			return nil, fmt.Errorf("failed to create orders table: %v", err)
		}
	}

	err = db.AutoMigrate(
		&models.PaymentCallback{},
		&models.BlogPost{},
		&models.ContactMessage{},
		&models.BlacklistedToken{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	return db, nil
}
