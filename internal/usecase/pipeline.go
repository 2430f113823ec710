package usecase

import (
	"context"

	"go.uber.org/zap"
)

// PurchasePipeline drives a provider event through normalize, record and
// fan-out. The webhook ingress and the reconciliation sweeper share it, so
// both paths get identical semantics: fan-out runs at most once per
// transaction id, gated by the recorder's conflict check.
type PurchasePipeline struct {
	normalizer *EventNormalizer
	purchases  *PurchaseService
	onboarding *OnboardingService
	logger     *zap.Logger
}

// NewPurchasePipeline creates a new purchase pipeline
func NewPurchasePipeline(normalizer *EventNormalizer, purchases *PurchaseService, onboarding *OnboardingService, logger *zap.Logger) *PurchasePipeline {
	return &PurchasePipeline{
		normalizer: normalizer,
		purchases:  purchases,
		onboarding: onboarding,
		logger:     logger,
	}
}

// Process normalizes the event, records it idempotently, and triggers the
// onboarding fan-out only when the record is new. Returns whether this call
// recorded the purchase.
func (p *PurchasePipeline) Process(ctx context.Context, event PurchaseEvent) (bool, error) {
	input, err := event.Normalize(ctx, p.normalizer)
	if err != nil {
		return false, err
	}

	inserted, purchase, err := p.purchases.Record(ctx, input)
	if err != nil {
		return false, err
	}
	if !inserted {
		return false, nil
	}

	// Downstream of a durable record everything is best effort. Failures
	// are logged per target inside the fan-out and never propagate.
	result := p.onboarding.Notify(ctx, purchase)
	if failed := result.FailedTargets(); len(failed) > 0 {
		p.logger.Warn("Onboarding fan-out completed with failures",
			zap.String("transaction_id", purchase.TransactionID),
			zap.Int("failed_targets", len(failed)))
	}

	return true, nil
}
