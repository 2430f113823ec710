package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	"github.com/adpilot-app/adpilot-backend/internal/domain/notifier"
	"github.com/adpilot-app/adpilot-backend/internal/usecase"
)

func TestOnboardingService_Notify(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	purchase := &model.Purchase{TransactionID: "cs_test_123", Tier: model.TierTrial}

	t.Run("all targets run and succeed", func(t *testing.T) {
		crm := &stubNotifier{target: notifier.TargetCRM}
		email := &stubNotifier{target: notifier.TargetEmail}
		task := &stubNotifier{target: notifier.TargetTask}
		tracking := &stubNotifier{target: notifier.TargetTracking}

		service := usecase.NewOnboardingService([]notifier.Notifier{crm, email, task, tracking}, logger)
		result := service.Notify(ctx, purchase)

		assert.Len(t, result, 4)
		assert.Empty(t, result.FailedTargets())
		assert.Equal(t, 1, crm.calls)
		assert.Equal(t, 1, email.calls)
		assert.Equal(t, 1, task.calls)
		assert.Equal(t, 1, tracking.calls)
	})

	t.Run("one failing target does not block the rest", func(t *testing.T) {
		crm := &stubNotifier{target: notifier.TargetCRM, err: errors.New("crm down")}
		email := &stubNotifier{target: notifier.TargetEmail}
		tracking := &stubNotifier{target: notifier.TargetTracking}

		service := usecase.NewOnboardingService([]notifier.Notifier{crm, email, tracking}, logger)
		result := service.Notify(ctx, purchase)

		assert.Len(t, result, 3)
		assert.Equal(t, []notifier.Target{notifier.TargetCRM}, result.FailedTargets())
		assert.Equal(t, 1, email.calls)
		assert.Equal(t, 1, tracking.calls)
	})

	t.Run("every target failing still settles", func(t *testing.T) {
		crm := &stubNotifier{target: notifier.TargetCRM, err: errors.New("crm down")}
		email := &stubNotifier{target: notifier.TargetEmail, err: errors.New("smtp down")}

		service := usecase.NewOnboardingService([]notifier.Notifier{crm, email}, logger)
		result := service.Notify(ctx, purchase)

		assert.Len(t, result.FailedTargets(), 2)
	})

	t.Run("no configured targets is a no-op", func(t *testing.T) {
		service := usecase.NewOnboardingService(nil, logger)
		result := service.Notify(ctx, purchase)

		assert.Empty(t, result)
		assert.Empty(t, result.FailedTargets())
	})
}
