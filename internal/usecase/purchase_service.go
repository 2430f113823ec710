package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/entity"
	domainErrors "github.com/adpilot-app/adpilot-backend/internal/domain/errors"
	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	"github.com/adpilot-app/adpilot-backend/internal/domain/repository"
)

// PurchaseService is the idempotent recorder in front of the event store.
type PurchaseService struct {
	purchases repository.PurchaseRepository
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(purchases repository.PurchaseRepository, logger *zap.Logger) *PurchaseService {
	return &PurchaseService{
		purchases: purchases,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Record validates the input and attempts a single conflict-safe insert.
// Returns (true, row) when this call wrote the purchase and (false, nil) on
// a benign duplicate. Conflicts are never errors; only validation and
// storage failures are.
func (s *PurchaseService) Record(ctx context.Context, input *entity.PurchaseInput) (bool, *model.Purchase, error) {
	if err := s.validate.Struct(input); err != nil {
		return false, nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidPurchase, err)
	}

	purchase := input.ToModel()

	inserted, err := s.purchases.InsertIfAbsent(ctx, purchase)
	if err != nil {
		return false, nil, fmt.Errorf("%w: %v", domainErrors.ErrStorage, err)
	}

	if !inserted {
		s.logger.Info("Duplicate purchase delivery ignored",
			zap.String("transaction_id", input.TransactionID))
		return false, nil, nil
	}

	s.logger.Info("Purchase recorded",
		zap.String("transaction_id", input.TransactionID),
		zap.Int64("amount_minor", input.AmountMinor),
		zap.String("currency", input.Currency),
		zap.String("tier", string(input.Tier)))

	return true, purchase, nil
}

// ListRecent returns the newest purchases for the internal admin API.
func (s *PurchaseService) ListRecent(ctx context.Context, limit int) ([]model.Purchase, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.purchases.ListRecent(ctx, limit)
}
