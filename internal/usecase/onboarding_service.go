package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	"github.com/adpilot-app/adpilot-backend/internal/domain/notifier"
)

// OnboardingService fans out post-purchase side effects. Targets run
// concurrently and independently: one failure never blocks the rest, and
// the call itself never returns an error. Failures surface only through
// the per-target result and logs.
type OnboardingService struct {
	notifiers []notifier.Notifier
	logger    *zap.Logger
}

// NewOnboardingService creates a new onboarding service
func NewOnboardingService(notifiers []notifier.Notifier, logger *zap.Logger) *OnboardingService {
	return &OnboardingService{
		notifiers: notifiers,
		logger:    logger,
	}
}

// Notify dispatches every configured target for a confirmed-new purchase
// and waits for all of them to settle.
func (s *OnboardingService) Notify(ctx context.Context, purchase *model.Purchase) notifier.FanOutResult {
	results := make(notifier.FanOutResult, len(s.notifiers))

	var wg sync.WaitGroup
	for i, target := range s.notifiers {
		wg.Add(1)
		go func(i int, target notifier.Notifier) {
			defer wg.Done()
			results[i] = notifier.TargetResult{
				Target: target.Target(),
				Err:    target.Notify(ctx, purchase),
			}
		}(i, target)
	}
	wg.Wait()

	for _, result := range results {
		if result.Err != nil {
			s.logger.Error("Onboarding notification failed",
				zap.String("target", string(result.Target)),
				zap.String("transaction_id", purchase.TransactionID),
				zap.Error(result.Err))
		} else {
			s.logger.Info("Onboarding notification sent",
				zap.String("target", string(result.Target)),
				zap.String("transaction_id", purchase.TransactionID))
		}
	}

	return results
}
