package repository

import (
	"context"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
)

// PurchaseRepository is the event store for completed transactions.
type PurchaseRepository interface {
	// InsertIfAbsent appends the purchase unless a row with the same
	// transaction id already exists. Returns true when a row was written.
	// A conflict is a silent no-op, never an error.
	InsertIfAbsent(ctx context.Context, purchase *model.Purchase) (bool, error)

	// Exists reports whether a purchase with the transaction id is recorded.
	Exists(ctx context.Context, transactionID string) (bool, error)

	// GetByTransactionID returns the purchase or nil when absent.
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Purchase, error)

	// ListRecent returns the newest purchases, bounded by limit.
	ListRecent(ctx context.Context, limit int) ([]model.Purchase, error)
}
