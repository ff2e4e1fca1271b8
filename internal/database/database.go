package database

import (
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SAGARJHA0511/MealCount/config"
)

// New opens the Postgres connection through GORM. TranslateError is on so
// unique-index violations surface as gorm.ErrDuplicatedKey.
func New(cfg *config.Config) (*gorm.DB, error) {
	// Log connection target (without password)
	log.Printf("Connecting to database at %s:%s as user %s", cfg.DBHost, cfg.DBPort, cfg.DBUser)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Printf("Successfully connected to database")
	return db, nil
}
