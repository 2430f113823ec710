package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/dto"
	"github.com/adpilot-app/adpilot-backend/internal/domain/provider"
	"github.com/adpilot-app/adpilot-backend/internal/domain/repository"
)

const reconcilePageSize = 100

// ReconciliationService heals gaps left by missed webhooks. It lists
// provider-side completed sessions for a window and replays the purchase
// pipeline for any transaction the event store does not know about.
// Overlapping runs are safe; the recorder's conflict check makes replays
// idempotent.
type ReconciliationService struct {
	gateway   provider.PaymentGateway
	purchases repository.PurchaseRepository
	pipeline  *PurchasePipeline
	logger    *zap.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(gateway provider.PaymentGateway, purchases repository.PurchaseRepository, pipeline *PurchasePipeline, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{
		gateway:   gateway,
		purchases: purchases,
		pipeline:  pipeline,
		logger:    logger,
	}
}

// Sweep checks every completed session created within the window against
// the event store. A per-item failure is counted and skipped; one bad event
// must never abort the sweep. Only a failure to list provider events is an
// error.
func (s *ReconciliationService) Sweep(ctx context.Context, window time.Duration) (dto.ReconcileSummary, error) {
	var summary dto.ReconcileSummary

	since := time.Now().Add(-window)
	sessions, err := s.gateway.ListCompletedSessions(ctx, since, reconcilePageSize)
	if err != nil {
		s.logger.Error("Failed to list completed sessions", zap.Error(err))
		return summary, err
	}

	for _, session := range sessions {
		summary.Checked++

		exists, err := s.purchases.Exists(ctx, session.ID)
		if err != nil {
			summary.Failed++
			s.logger.Error("Reconciliation existence check failed",
				zap.String("session_id", session.ID),
				zap.Error(err))
			continue
		}
		if exists {
			summary.AlreadyExists++
			continue
		}

		inserted, err := s.pipeline.Process(ctx, CheckoutSessionEvent{Session: session})
		if err != nil {
			summary.Failed++
			s.logger.Error("Reconciliation replay failed",
				zap.String("session_id", session.ID),
				zap.Error(err))
			continue
		}

		if inserted {
			summary.Reconciled++
			s.logger.Warn("Reconciled purchase missed by webhook delivery",
				zap.String("session_id", session.ID))
		} else {
			// A concurrent webhook landed between the existence check and
			// the replay. Counts as already present.
			summary.AlreadyExists++
		}
	}

	s.logger.Info("Reconciliation sweep finished",
		zap.Int("checked", summary.Checked),
		zap.Int("reconciled", summary.Reconciled),
		zap.Int("already_exists", summary.AlreadyExists),
		zap.Int("failed", summary.Failed))

	return summary, nil
}
