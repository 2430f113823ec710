package usecase

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/dto"
	"github.com/adpilot-app/adpilot-backend/internal/domain/notifier"
	"github.com/adpilot-app/adpilot-backend/internal/domain/provider"
	"github.com/adpilot-app/adpilot-backend/internal/domain/repository"
)

const abandonedBatchSize = 50

// AbandonmentService nudges stale incomplete checkouts. Each candidate's
// live status is re-fetched from the provider before emailing, so a webhook
// that is in flight but not yet landed cannot cause a spurious nudge.
type AbandonmentService struct {
	pending    repository.PendingCheckoutRepository
	gateway    provider.PaymentGateway
	engagement notifier.EngagementSender
	logger     *zap.Logger
}

// NewAbandonmentService creates a new abandonment service
func NewAbandonmentService(pending repository.PendingCheckoutRepository, gateway provider.PaymentGateway, engagement notifier.EngagementSender, logger *zap.Logger) *AbandonmentService {
	return &AbandonmentService{
		pending:    pending,
		gateway:    gateway,
		engagement: engagement,
		logger:     logger,
	}
}

// Sweep processes checkouts stale for longer than staleAfter and deletes
// rows older than cleanupAfter regardless of status. Per-item failures are
// counted and logged; the batch always runs to completion.
func (s *AbandonmentService) Sweep(ctx context.Context, staleAfter, cleanupAfter time.Duration) (dto.AbandonSummary, error) {
	var summary dto.AbandonSummary

	cutoff := time.Now().Add(-staleAfter)
	candidates, err := s.pending.FindStale(ctx, cutoff, abandonedBatchSize)
	if err != nil {
		s.logger.Error("Failed to select stale pending checkouts", zap.Error(err))
		return summary, err
	}

	for _, candidate := range candidates {
		session, err := s.gateway.GetCheckoutSession(ctx, candidate.SessionID)
		if err != nil {
			summary.Failed++
			s.logger.Error("Failed to re-check session status",
				zap.String("session_id", candidate.SessionID),
				zap.Error(err))
			continue
		}

		if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
			// The webhook or sweeper will record this purchase; the row is
			// resolved, not abandoned. Mark it so it leaves the candidate
			// set without an email.
			if err := s.pending.MarkNudged(ctx, candidate.SessionID); err != nil {
				summary.Failed++
				s.logger.Error("Failed to mark paid checkout as resolved",
					zap.String("session_id", candidate.SessionID),
					zap.Error(err))
			}
			continue
		}

		if err := s.engagement.SendAbandonedCheckout(ctx, candidate); err != nil {
			summary.Failed++
			s.logger.Error("Failed to send re-engagement email",
				zap.String("session_id", candidate.SessionID),
				zap.String("email", candidate.Email),
				zap.Error(err))
			continue
		}

		if err := s.pending.MarkNudged(ctx, candidate.SessionID); err != nil {
			summary.Failed++
			s.logger.Error("Failed to mark checkout as nudged",
				zap.String("session_id", candidate.SessionID),
				zap.Error(err))
			continue
		}

		summary.Sent++
		s.logger.Info("Re-engagement email sent",
			zap.String("session_id", candidate.SessionID))
	}

	cleaned, err := s.pending.DeleteOlderThan(ctx, time.Now().Add(-cleanupAfter))
	if err != nil {
		s.logger.Error("Failed to clean up expired pending checkouts", zap.Error(err))
	} else {
		summary.Cleaned = int(cleaned)
	}

	s.logger.Info("Abandoned-session sweep finished",
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("cleaned", summary.Cleaned))

	return summary, nil
}
