package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	domainErrors "github.com/adpilot-app/adpilot-backend/internal/domain/errors"
	"github.com/adpilot-app/adpilot-backend/internal/usecase"
)

// WebhookHandler is the ingress for payment-provider events. Correctness
// rests on the event store's uniqueness constraint, not on any in-process
// coordination, so concurrent deliveries need no locking here.
type WebhookHandler struct {
	logger        *zap.Logger
	webhookSecret string
	pipeline      *usecase.PurchasePipeline
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(logger *zap.Logger, webhookSecret string, pipeline *usecase.PurchasePipeline) *WebhookHandler {
	return &WebhookHandler{
		logger:        logger,
		webhookSecret: webhookSecret,
		pipeline:      pipeline,
	}
}

func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	// The signature covers the exact bytes, so the body must be read raw
	// before any parsing.
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(
		body,
		sig,
		h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)

	if err != nil {
		h.logger.Error("Webhook signature verification failed",
			zap.Error(err),
		)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Webhook signature verification failed",
		})
	}

	h.logger.Info("Webhook event received",
		zap.String("type", string(event.Type)),
		zap.String("id", event.ID),
		zap.Time("created", time.Unix(event.Created, 0)),
	)

	purchaseEvent, err := classifyEvent(event)
	if err != nil {
		h.logger.Error("Error parsing webhook payload",
			zap.String("type", string(event.Type)),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error parsing webhook"})
	}
	if purchaseEvent == nil {
		// The provider emits many event types this service does not act
		// on; acknowledging them is the correct terminal state.
		h.logger.Debug("Ignoring unhandled event type",
			zap.String("type", string(event.Type)))
		return c.JSON(http.StatusOK, echo.Map{"received": true})
	}

	inserted, err := h.pipeline.Process(c.Request().Context(), purchaseEvent)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidPurchase) {
			h.logger.Error("Webhook produced an invalid purchase",
				zap.String("transaction_id", purchaseEvent.TransactionID()),
				zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid event payload"})
		}

		// Recording failed; a 500 tells the provider to redeliver.
		h.logger.Error("Failed to record purchase",
			zap.String("transaction_id", purchaseEvent.TransactionID()),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to record purchase"})
	}

	if !inserted {
		h.logger.Info("Duplicate webhook delivery acknowledged",
			zap.String("transaction_id", purchaseEvent.TransactionID()))
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

// classifyEvent maps a provider event onto the closed purchase-event union.
// Returns (nil, nil) for event types outside the union.
func classifyEvent(event stripe.Event) (usecase.PurchaseEvent, error) {
	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, err
		}
		return usecase.CheckoutSessionEvent{Session: &session}, nil

	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, err
		}
		return usecase.PaymentIntentEvent{Intent: &intent}, nil

	default:
		return nil, nil
	}
}
