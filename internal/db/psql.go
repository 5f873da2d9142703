package db

import (
	"fmt"
	"time"

	configs "github.com/lijuuu/ChallengeLegacySyncService/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the legacy timeline database. Phase reads happen on every
// ops request, so statements are prepared and the pool is bounded.
func InitDB(cfg *configs.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PsqlURL), &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open timeline db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access timeline db pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
