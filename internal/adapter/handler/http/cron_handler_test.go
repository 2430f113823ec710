package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	"github.com/adpilot-app/adpilot-backend/internal/usecase"
)

func newCronTestHandler(purchases *MockPurchaseRepository, pending *MockPendingCheckoutRepository, gateway *MockPaymentGateway) *CronHandler {
	logger := zap.NewNop()
	pipeline := usecase.NewPurchasePipeline(
		usecase.NewEventNormalizer(gateway, logger),
		usecase.NewPurchaseService(purchases, logger),
		usecase.NewOnboardingService(nil, logger),
		logger,
	)
	reconciliation := usecase.NewReconciliationService(gateway, purchases, pipeline, logger)
	abandonment := usecase.NewAbandonmentService(pending, gateway, noopEngagement{}, logger)

	return NewCronHandler(logger, reconciliation, abandonment, 0, 0, 0)
}

type noopEngagement struct{}

func (noopEngagement) SendAbandonedCheckout(ctx context.Context, pending *model.PendingCheckout) error {
	return nil
}

func TestCronHandler_Reconcile(t *testing.T) {
	e := echo.New()

	t.Run("reports sweep counts", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		pending := new(MockPendingCheckoutRepository)
		gateway := new(MockPaymentGateway)
		handler := newCronTestHandler(purchases, pending, gateway)

		sessions := []*stripe.CheckoutSession{
			{
				ID:          "cs_test_1",
				AmountTotal: 4900,
				Currency:    stripe.CurrencyUSD,
				Mode:        stripe.CheckoutSessionModePayment,
			},
		}
		gateway.On("ListCompletedSessions", mock.Anything, mock.AnythingOfType("time.Time"), int64(100)).
			Return(sessions, nil)
		purchases.On("Exists", mock.Anything, "cs_test_1").Return(true, nil)

		req := httptest.NewRequest(http.MethodGet, "/internal/cron/reconcile", nil)
		rec := httptest.NewRecorder()

		err := handler.Reconcile(e.NewContext(req, rec))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"reconciled":0,"alreadyExists":1,"failed":0,"checked":1}`, rec.Body.String())
	})

	t.Run("listing failure answers 500", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		pending := new(MockPendingCheckoutRepository)
		gateway := new(MockPaymentGateway)
		handler := newCronTestHandler(purchases, pending, gateway)

		gateway.On("ListCompletedSessions", mock.Anything, mock.AnythingOfType("time.Time"), int64(100)).
			Return(nil, errors.New("api unavailable"))

		req := httptest.NewRequest(http.MethodGet, "/internal/cron/reconcile", nil)
		rec := httptest.NewRecorder()

		err := handler.Reconcile(e.NewContext(req, rec))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestCronHandler_Abandoned(t *testing.T) {
	e := echo.New()

	t.Run("reports sweep counts", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		pending := new(MockPendingCheckoutRepository)
		gateway := new(MockPaymentGateway)
		handler := newCronTestHandler(purchases, pending, gateway)

		pending.On("FindStale", mock.Anything, mock.AnythingOfType("time.Time"), 50).
			Return([]*model.PendingCheckout{}, nil)
		pending.On("DeleteOlderThan", mock.Anything, mock.AnythingOfType("time.Time")).
			Return(int64(3), nil)

		req := httptest.NewRequest(http.MethodGet, "/internal/cron/abandoned", nil)
		rec := httptest.NewRecorder()

		err := handler.Abandoned(e.NewContext(req, rec))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"sent":0,"failed":0,"cleaned":3}`, rec.Body.String())
	})

	t.Run("selection failure answers 500", func(t *testing.T) {
		purchases := new(MockPurchaseRepository)
		pending := new(MockPendingCheckoutRepository)
		gateway := new(MockPaymentGateway)
		handler := newCronTestHandler(purchases, pending, gateway)

		pending.On("FindStale", mock.Anything, mock.AnythingOfType("time.Time"), 50).
			Return(nil, errors.New("connection refused"))

		req := httptest.NewRequest(http.MethodGet, "/internal/cron/abandoned", nil)
		rec := httptest.NewRecorder()

		err := handler.Abandoned(e.NewContext(req, rec))

		assert.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
