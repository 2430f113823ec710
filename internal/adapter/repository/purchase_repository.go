package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	domainRepo "github.com/adpilot-app/adpilot-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type purchaseRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PurchaseRepository {
	return &purchaseRepository{
		db:     db,
		logger: logger,
	}
}

// InsertIfAbsent appends the purchase using a conflict-safe write. The
// unique constraint on transaction_id is the serialization point: when two
// deliveries race, exactly one insert lands and the other observes
// RowsAffected == 0.
func (r *purchaseRepository) InsertIfAbsent(ctx context.Context, purchase *model.Purchase) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(purchase)

	if result.Error != nil {
		r.logger.Error("Failed to insert purchase",
			zap.String("transaction_id", purchase.TransactionID),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to insert purchase: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// Exists reports whether a purchase with the transaction id is recorded.
func (r *purchaseRepository) Exists(ctx context.Context, transactionID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error

	if err != nil {
		r.logger.Error("Failed to check purchase existence",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		return false, fmt.Errorf("failed to check purchase existence: %w", err)
	}

	return count > 0, nil
}

// GetByTransactionID retrieves a purchase by transaction id
func (r *purchaseRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.Purchase, error) {
	var purchase model.Purchase

	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&purchase).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get purchase",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	return &purchase, nil
}

// ListRecent returns the newest purchases, bounded by limit
func (r *purchaseRepository) ListRecent(ctx context.Context, limit int) ([]model.Purchase, error) {
	var purchases []model.Purchase

	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&purchases).Error; err != nil {
		r.logger.Error("Failed to list purchases", zap.Error(err))
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	return purchases, nil
}
