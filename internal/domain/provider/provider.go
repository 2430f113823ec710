package provider

import (
	"context"
	"time"

	"github.com/stripe/stripe-go/v79"
)

// PaymentGateway is the read side of the payment provider used by the
// reconciliation and abandonment sweeps and by identity lookups during
// webhook normalization.
type PaymentGateway interface {
	// ListCompletedSessions returns completed checkout sessions created
	// since the given time, bounded by the provider page size.
	ListCompletedSessions(ctx context.Context, since time.Time, limit int64) ([]*stripe.CheckoutSession, error)

	// GetCheckoutSession fetches the live session state, bypassing any
	// local cache. Used to avoid racing an in-flight webhook.
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)

	// GetCustomer fetches the customer profile referenced by a payment
	// intent. Lookup failure degrades to the intent's receipt email.
	GetCustomer(ctx context.Context, customerID string) (*stripe.Customer, error)
}
