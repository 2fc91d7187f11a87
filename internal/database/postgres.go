package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/noah-isme/mathfluent-go-api/internal/models"
)

// ConnectPostgres opens the results database and migrates the result tables.
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables used by the results sink.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.ResultBatch{}, &models.ResultRecord{}); err != nil {
		return fmt.Errorf("failed to migrate result tables: %w", err)
	}
	return nil
}
