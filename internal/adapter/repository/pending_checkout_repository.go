package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	domainRepo "github.com/adpilot-app/adpilot-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type pendingCheckoutRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPendingCheckoutRepository creates a new pending checkout repository
func NewPendingCheckoutRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PendingCheckoutRepository {
	return &pendingCheckoutRepository{
		db:     db,
		logger: logger,
	}
}

// Create saves a new pending checkout row
func (r *pendingCheckoutRepository) Create(ctx context.Context, pending *model.PendingCheckout) error {
	if err := r.db.WithContext(ctx).Create(pending).Error; err != nil {
		r.logger.Error("Failed to create pending checkout",
			zap.String("session_id", pending.SessionID),
			zap.Error(err))
		return fmt.Errorf("failed to create pending checkout: %w", err)
	}
	return nil
}

// FindStale returns un-nudged pending checkouts created before olderThan
// that have no matching purchase record. A row with a purchase for the same
// session id is resolved and must never be nudged.
func (r *pendingCheckoutRepository) FindStale(ctx context.Context, olderThan time.Time, limit int) ([]*model.PendingCheckout, error) {
	var rows []*model.PendingCheckout

	query := r.db.WithContext(ctx).
		Where("nudged_at IS NULL").
		Where("created_at < ?", olderThan).
		Where("NOT EXISTS (SELECT 1 FROM purchases WHERE purchases.transaction_id = pending_checkouts.session_id)").
		Order("created_at ASC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&rows).Error; err != nil {
		r.logger.Error("Failed to find stale pending checkouts", zap.Error(err))
		return nil, fmt.Errorf("failed to find stale pending checkouts: %w", err)
	}

	return rows, nil
}

// MarkNudged stamps the nudged-at timestamp on a pending checkout
func (r *pendingCheckoutRepository) MarkNudged(ctx context.Context, sessionID string) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.PendingCheckout{}).
		Where("session_id = ?", sessionID).
		Update("nudged_at", &now)

	if result.Error != nil {
		r.logger.Error("Failed to mark pending checkout as nudged",
			zap.String("session_id", sessionID),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark pending checkout as nudged: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("pending checkout not found: %s", sessionID)
	}

	return nil
}

// DeleteOlderThan removes rows created before cutoff regardless of status
func (r *pendingCheckoutRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.PendingCheckout{})

	if result.Error != nil {
		r.logger.Error("Failed to delete expired pending checkouts", zap.Error(result.Error))
		return 0, fmt.Errorf("failed to delete expired pending checkouts: %w", result.Error)
	}

	return result.RowsAffected, nil
}
