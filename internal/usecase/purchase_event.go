package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/entity"
	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	"github.com/adpilot-app/adpilot-backend/internal/domain/provider"
)

// PurchaseEvent is the closed set of provider events that produce a
// purchase. Each variant carries its own normalization into the canonical
// PurchaseInput; the recorder and fan-out stay event-type agnostic.
type PurchaseEvent interface {
	TransactionID() string
	Normalize(ctx context.Context, n *EventNormalizer) (*entity.PurchaseInput, error)
}

// CheckoutSessionEvent wraps a checkout.session.completed payload. Customer
// identity is read directly off the session.
type CheckoutSessionEvent struct {
	Session *stripe.CheckoutSession
}

func (e CheckoutSessionEvent) TransactionID() string {
	return e.Session.ID
}

func (e CheckoutSessionEvent) Normalize(ctx context.Context, n *EventNormalizer) (*entity.PurchaseInput, error) {
	return n.fromCheckoutSession(e.Session)
}

// PaymentIntentEvent wraps a payment_intent.succeeded payload. The intent
// only references a customer id, so identity requires a separate lookup
// with a receipt-email fallback.
type PaymentIntentEvent struct {
	Intent *stripe.PaymentIntent
}

func (e PaymentIntentEvent) TransactionID() string {
	return e.Intent.ID
}

func (e PaymentIntentEvent) Normalize(ctx context.Context, n *EventNormalizer) (*entity.PurchaseInput, error) {
	return n.fromPaymentIntent(ctx, e.Intent)
}

// EventNormalizer maps provider payloads into the canonical purchase shape.
type EventNormalizer struct {
	gateway provider.PaymentGateway
	logger  *zap.Logger
}

// NewEventNormalizer creates a new event normalizer
func NewEventNormalizer(gateway provider.PaymentGateway, logger *zap.Logger) *EventNormalizer {
	return &EventNormalizer{
		gateway: gateway,
		logger:  logger,
	}
}

func (n *EventNormalizer) fromCheckoutSession(session *stripe.CheckoutSession) (*entity.PurchaseInput, error) {
	if session == nil || session.ID == "" {
		return nil, fmt.Errorf("checkout session payload missing id")
	}

	recurring := session.Mode == stripe.CheckoutSessionModeSubscription

	input := &entity.PurchaseInput{
		TransactionID: session.ID,
		AmountMinor:   session.AmountTotal,
		Currency:      strings.ToUpper(string(session.Currency)),
		Tier:          tierFromMetadata(session.Metadata, recurring),
		Recurring:     recurring,
	}

	if session.Customer != nil {
		input.CustomerID = session.Customer.ID
	}
	if session.Subscription != nil {
		input.SubscriptionID = session.Subscription.ID
	}

	if details := session.CustomerDetails; details != nil {
		input.CustomerEmail = details.Email
		input.CustomerName = details.Name
		input.CustomerPhone = details.Phone
	}
	if input.CustomerEmail == "" {
		input.CustomerEmail = session.CustomerEmail
	}

	applyAttribution(input, session.Metadata)

	return input, nil
}

func (n *EventNormalizer) fromPaymentIntent(ctx context.Context, intent *stripe.PaymentIntent) (*entity.PurchaseInput, error) {
	if intent == nil || intent.ID == "" {
		return nil, fmt.Errorf("payment intent payload missing id")
	}

	input := &entity.PurchaseInput{
		TransactionID: intent.ID,
		AmountMinor:   intent.Amount,
		Currency:      strings.ToUpper(string(intent.Currency)),
		Tier:          tierFromMetadata(intent.Metadata, false),
		Recurring:     false,
	}

	applyAttribution(input, intent.Metadata)

	if intent.Customer == nil || intent.Customer.ID == "" {
		input.CustomerEmail = intent.ReceiptEmail
		return input, nil
	}

	input.CustomerID = intent.Customer.ID

	// The profile lookup can fail independently of the payment; fall back
	// to the receipt email rather than failing the pipeline.
	customer, err := n.gateway.GetCustomer(ctx, intent.Customer.ID)
	if err != nil {
		n.logger.Warn("Customer lookup failed, falling back to receipt email",
			zap.String("payment_intent_id", intent.ID),
			zap.String("customer_id", intent.Customer.ID),
			zap.Error(err))
		input.CustomerEmail = intent.ReceiptEmail
		return input, nil
	}

	input.CustomerEmail = customer.Email
	input.CustomerName = customer.Name
	input.CustomerPhone = customer.Phone
	if input.CustomerEmail == "" {
		input.CustomerEmail = intent.ReceiptEmail
	}

	return input, nil
}

func tierFromMetadata(metadata map[string]string, recurring bool) model.ProductTier {
	switch metadata["tier"] {
	case string(model.TierTrial):
		return model.TierTrial
	case string(model.TierUnlimited):
		return model.TierUnlimited
	}
	if recurring {
		return model.TierUnlimited
	}
	return model.TierTrial
}

func applyAttribution(input *entity.PurchaseInput, metadata map[string]string) {
	input.VisitorID = metadata["visitor_id"]
	input.UTMSource = metadata["utm_source"]
	input.UTMMedium = metadata["utm_medium"]
	input.UTMCampaign = metadata["utm_campaign"]
}
