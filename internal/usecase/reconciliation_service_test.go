package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/notifier"
	"github.com/adpilot-app/adpilot-backend/internal/usecase"
)

func newReconciliationService(repo *MockPurchaseRepository, gateway *MockPaymentGateway, notifiers []notifier.Notifier) *usecase.ReconciliationService {
	logger := zap.NewNop()
	pipeline := newTestPipeline(repo, gateway, notifiers)
	return usecase.NewReconciliationService(gateway, repo, pipeline, logger)
}

func TestReconciliationService_Sweep(t *testing.T) {
	ctx := context.Background()
	window := 24 * time.Hour

	t.Run("records missed sessions and counts the rest", func(t *testing.T) {
		mockRepo := new(MockPurchaseRepository)
		gateway := new(MockPaymentGateway)
		email := &stubNotifier{target: notifier.TargetEmail}

		// 100 completed sessions: two missed by webhook delivery, one whose
		// existence check fails, the rest already recorded.
		var sessions []*stripe.CheckoutSession
		for i := 0; i < 100; i++ {
			sessions = append(sessions, completedSession(fmt.Sprintf("cs_test_%d", i)))
		}
		gateway.On("ListCompletedSessions", ctx, mock.AnythingOfType("time.Time"), int64(100)).
			Return(sessions, nil)

		for i := 0; i < 100; i++ {
			id := fmt.Sprintf("cs_test_%d", i)
			switch i {
			case 3, 7:
				mockRepo.On("Exists", ctx, id).Return(false, nil)
			case 42:
				mockRepo.On("Exists", ctx, id).Return(false, errors.New("connection refused"))
			default:
				mockRepo.On("Exists", ctx, id).Return(true, nil)
			}
		}
		mockRepo.On("InsertIfAbsent", ctx, mock.AnythingOfType("*model.Purchase")).
			Return(true, nil).Twice()

		service := newReconciliationService(mockRepo, gateway, []notifier.Notifier{email})
		summary, err := service.Sweep(ctx, window)

		assert.NoError(t, err)
		assert.Equal(t, 100, summary.Checked)
		assert.Equal(t, 2, summary.Reconciled)
		assert.Equal(t, 97, summary.AlreadyExists)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 2, email.calls)
		mockRepo.AssertExpectations(t)
	})

	t.Run("listing failure aborts the sweep", func(t *testing.T) {
		mockRepo := new(MockPurchaseRepository)
		gateway := new(MockPaymentGateway)

		gateway.On("ListCompletedSessions", ctx, mock.AnythingOfType("time.Time"), int64(100)).
			Return(nil, errors.New("api unavailable"))

		service := newReconciliationService(mockRepo, gateway, nil)
		summary, err := service.Sweep(ctx, window)

		assert.Error(t, err)
		assert.Equal(t, 0, summary.Checked)
	})

	t.Run("replay failure is counted and skipped", func(t *testing.T) {
		mockRepo := new(MockPurchaseRepository)
		gateway := new(MockPaymentGateway)

		sessions := []*stripe.CheckoutSession{
			completedSession("cs_test_bad"),
			completedSession("cs_test_good"),
		}
		gateway.On("ListCompletedSessions", ctx, mock.AnythingOfType("time.Time"), int64(100)).
			Return(sessions, nil)

		mockRepo.On("Exists", ctx, "cs_test_bad").Return(false, nil)
		mockRepo.On("Exists", ctx, "cs_test_good").Return(false, nil)
		mockRepo.On("InsertIfAbsent", ctx, mock.AnythingOfType("*model.Purchase")).
			Return(false, errors.New("connection refused")).Once()
		mockRepo.On("InsertIfAbsent", ctx, mock.AnythingOfType("*model.Purchase")).
			Return(true, nil).Once()

		service := newReconciliationService(mockRepo, gateway, nil)
		summary, err := service.Sweep(ctx, window)

		assert.NoError(t, err)
		assert.Equal(t, 2, summary.Checked)
		assert.Equal(t, 1, summary.Reconciled)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("concurrent webhook landing counts as already present", func(t *testing.T) {
		mockRepo := new(MockPurchaseRepository)
		gateway := new(MockPaymentGateway)
		email := &stubNotifier{target: notifier.TargetEmail}

		sessions := []*stripe.CheckoutSession{completedSession("cs_test_race")}
		gateway.On("ListCompletedSessions", ctx, mock.AnythingOfType("time.Time"), int64(100)).
			Return(sessions, nil)

		// The webhook wins the race between the existence check and the
		// conflict-safe insert.
		mockRepo.On("Exists", ctx, "cs_test_race").Return(false, nil)
		mockRepo.On("InsertIfAbsent", ctx, mock.AnythingOfType("*model.Purchase")).
			Return(false, nil)

		service := newReconciliationService(mockRepo, gateway, []notifier.Notifier{email})
		summary, err := service.Sweep(ctx, window)

		assert.NoError(t, err)
		assert.Equal(t, 1, summary.AlreadyExists)
		assert.Equal(t, 0, summary.Reconciled)
		assert.Equal(t, 0, email.calls)
	})
}
