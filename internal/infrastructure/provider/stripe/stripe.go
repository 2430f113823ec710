package stripe

import (
	"context"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/provider"
)

// Gateway implements the PaymentGateway interface against the Stripe API.
type Gateway struct {
	logger *zap.Logger
}

// NewGateway creates a new Stripe gateway. The secret key is installed
// globally, matching how the rest of the service issues Stripe calls.
func NewGateway(secretKey string, logger *zap.Logger) *Gateway {
	stripe.Key = secretKey
	return &Gateway{
		logger: logger,
	}
}

// ListCompletedSessions returns completed checkout sessions created since
// the given time, bounded by limit.
func (g *Gateway) ListCompletedSessions(ctx context.Context, since time.Time, limit int64) ([]*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionListParams{
		Status: stripe.String(string(stripe.CheckoutSessionStatusComplete)),
		CreatedRange: &stripe.RangeQueryParams{
			GreaterThanOrEqual: since.Unix(),
		},
	}
	params.Context = ctx
	params.Limit = stripe.Int64(limit)

	var sessions []*stripe.CheckoutSession
	iter := checkoutsession.List(params)
	for iter.Next() {
		sessions = append(sessions, iter.CheckoutSession())
		if int64(len(sessions)) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list checkout sessions: %w", err)
	}

	return sessions, nil
}

// GetCheckoutSession fetches the live session state from Stripe.
func (g *Gateway) GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout session %s: %w", sessionID, err)
	}
	return session, nil
}

// GetCustomer fetches a customer profile from Stripe.
func (g *Gateway) GetCustomer(ctx context.Context, customerID string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	cust, err := customer.Get(customerID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}
	return cust, nil
}

var _ provider.PaymentGateway = (*Gateway)(nil)
