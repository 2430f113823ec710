package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/config"
	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	"github.com/adpilot-app/adpilot-backend/internal/domain/provider"
	"github.com/adpilot-app/adpilot-backend/internal/domain/repository"
)

// CheckoutHandler initiates provider checkout sessions and records the
// pending-checkout rows the abandonment sweep consumes.
type CheckoutHandler struct {
	logger  *zap.Logger
	config  *config.ServiceConfig
	pending repository.PendingCheckoutRepository
	gateway provider.PaymentGateway
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(logger *zap.Logger, cfg *config.ServiceConfig, pending repository.PendingCheckoutRepository, gateway provider.PaymentGateway) *CheckoutHandler {
	return &CheckoutHandler{
		logger:  logger,
		config:  cfg,
		pending: pending,
		gateway: gateway,
	}
}

type CreateCheckoutRequest struct {
	Tier        string `json:"tier" validate:"required,oneof=trial unlimited"`
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name"`
	VisitorID   string `json:"visitorId"`
	UTMSource   string `json:"utmSource"`
	UTMMedium   string `json:"utmMedium"`
	UTMCampaign string `json:"utmCampaign"`
}

type CreateCheckoutResponse struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkout_url"`
}

func (h *CheckoutHandler) CreateCheckout(c echo.Context) error {
	var req CreateCheckoutRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request: " + err.Error(),
		})
	}

	tier := model.ProductTier(req.Tier)

	priceID := h.config.TrialPriceID
	mode := stripe.CheckoutSessionModePayment
	if tier == model.TierUnlimited {
		priceID = h.config.UnlimitedPriceID
		mode = stripe.CheckoutSessionModeSubscription
	}

	h.logger.Info("Creating checkout session...",
		zap.String("tier", req.Tier),
		zap.String("email", req.Email),
	)

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		Mode:          stripe.String(string(mode)),
		SuccessURL:    stripe.String(h.config.ClientURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(h.config.ClientURL + "/#pricing"),
		CustomerEmail: stripe.String(req.Email),
		Metadata: map[string]string{
			"tier":         req.Tier,
			"visitor_id":   req.VisitorID,
			"utm_source":   req.UTMSource,
			"utm_medium":   req.UTMMedium,
			"utm_campaign": req.UTMCampaign,
		},
	}
	params.Context = c.Request().Context()

	s, err := checkoutsession.New(params)
	if err != nil {
		h.logger.Error("Error creating checkout session", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create checkout session",
		})
	}

	pending := &model.PendingCheckout{
		SessionID:   s.ID,
		Email:       req.Email,
		DisplayName: req.Name,
		AmountMinor: s.AmountTotal,
		Currency:    currencyCode(s),
		Tier:        tier,
	}
	if err := h.pending.Create(c.Request().Context(), pending); err != nil {
		// The provider session exists either way; losing the pending row
		// only costs abandonment recovery for this attempt.
		h.logger.Error("Failed to record pending checkout",
			zap.String("session_id", s.ID),
			zap.Error(err))
	}

	return c.JSON(http.StatusCreated, CreateCheckoutResponse{
		ID:          s.ID,
		CheckoutURL: s.URL,
	})
}

// CheckSessionStatus reports the live provider-side state of a session,
// used by the success page while the webhook is still in flight.
func (h *CheckoutHandler) CheckSessionStatus(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Session id required"})
	}

	session, err := h.gateway.GetCheckoutSession(c.Request().Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to fetch session status",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Session not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":             session.ID,
		"status":         session.Status,
		"payment_status": session.PaymentStatus,
	})
}

func currencyCode(s *stripe.CheckoutSession) string {
	if s.Currency == "" {
		return "USD"
	}
	return strings.ToUpper(string(s.Currency))
}
