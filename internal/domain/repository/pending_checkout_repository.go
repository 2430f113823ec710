package repository

import (
	"context"
	"time"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
)

// PendingCheckoutRepository stores initiated-but-unresolved checkout attempts.
type PendingCheckoutRepository interface {
	Create(ctx context.Context, pending *model.PendingCheckout) error

	// FindStale returns un-nudged pending checkouts created before olderThan
	// that have no matching purchase record, bounded by limit.
	FindStale(ctx context.Context, olderThan time.Time, limit int) ([]*model.PendingCheckout, error)

	// MarkNudged stamps the nudged-at timestamp, excluding the row from
	// future stale queries.
	MarkNudged(ctx context.Context, sessionID string) error

	// DeleteOlderThan removes rows created before cutoff regardless of
	// status, bounding table growth. Returns the number of rows removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
