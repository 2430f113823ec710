package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v79"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	"github.com/adpilot-app/adpilot-backend/internal/domain/notifier"
)

// MockPurchaseRepository is a mock implementation of PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) InsertIfAbsent(ctx context.Context, purchase *model.Purchase) (bool, error) {
	args := m.Called(ctx, purchase)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) Exists(ctx context.Context, transactionID string) (bool, error) {
	args := m.Called(ctx, transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.Purchase, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ListRecent(ctx context.Context, limit int) ([]model.Purchase, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Purchase), args.Error(1)
}

// MockPendingCheckoutRepository is a mock implementation of PendingCheckoutRepository
type MockPendingCheckoutRepository struct {
	mock.Mock
}

func (m *MockPendingCheckoutRepository) Create(ctx context.Context, pending *model.PendingCheckout) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

func (m *MockPendingCheckoutRepository) FindStale(ctx context.Context, olderThan time.Time, limit int) ([]*model.PendingCheckout, error) {
	args := m.Called(ctx, olderThan, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.PendingCheckout), args.Error(1)
}

func (m *MockPendingCheckoutRepository) MarkNudged(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockPendingCheckoutRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentGateway is a mock implementation of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) ListCompletedSessions(ctx context.Context, since time.Time, limit int64) ([]*stripe.CheckoutSession, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stripe.CheckoutSession), args.Error(1)
}

func (m *MockPaymentGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

func (m *MockPaymentGateway) GetCustomer(ctx context.Context, customerID string) (*stripe.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Customer), args.Error(1)
}

// MockEngagementSender is a mock implementation of EngagementSender
type MockEngagementSender struct {
	mock.Mock
}

func (m *MockEngagementSender) SendAbandonedCheckout(ctx context.Context, pending *model.PendingCheckout) error {
	args := m.Called(ctx, pending)
	return args.Error(0)
}

// stubNotifier is a fan-out target with a fixed outcome.
type stubNotifier struct {
	target notifier.Target
	err    error
	calls  int
}

func (s *stubNotifier) Target() notifier.Target {
	return s.target
}

func (s *stubNotifier) Notify(ctx context.Context, purchase *model.Purchase) error {
	s.calls++
	return s.err
}
