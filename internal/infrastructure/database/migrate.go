package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.Purchase{},
		&model.PendingCheckout{},
		&model.Conversation{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes that GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// Partial index for the abandonment sweep's candidate query
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_pending_checkouts_stale ON pending_checkouts (created_at) WHERE nudged_at IS NULL`).Error; err != nil {
		return err
	}

	// Recent-purchase listing for the internal admin API
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_purchases_created_at ON purchases (created_at DESC)`).Error; err != nil {
		return err
	}

	return nil
}
