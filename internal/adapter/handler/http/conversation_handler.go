package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	"github.com/adpilot-app/adpilot-backend/internal/usecase"
)

// ConversationHandler persists lead-qualification conversations from the
// chat widget and the voice agent's asynchronous webhook.
type ConversationHandler struct {
	logger        *zap.Logger
	conversations *usecase.ConversationService
	voiceToken    string
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(logger *zap.Logger, conversations *usecase.ConversationService, voiceToken string) *ConversationHandler {
	return &ConversationHandler{
		logger:        logger,
		conversations: conversations,
		voiceToken:    voiceToken,
	}
}

type SaveConversationRequest struct {
	ConversationID string                 `json:"conversationId" validate:"required"`
	Transcript     map[string]interface{} `json:"transcript"`
	BusinessName   string                 `json:"businessName"`
	Challenge      string                 `json:"challenge"`
	Outcome        string                 `json:"outcome"`
	Email          string                 `json:"email" validate:"omitempty,email"`
}

// SaveConversation stores a widget-side conversation save.
func (h *ConversationHandler) SaveConversation(c echo.Context) error {
	return h.save(c, usecase.ConversationSourceWidget)
}

// HandleVoiceWebhook stores a conversation delivered by the voice agent.
// The agent authenticates with a shared token header.
func (h *ConversationHandler) HandleVoiceWebhook(c echo.Context) error {
	token := c.Request().Header.Get("X-Voice-Webhook-Token")
	if h.voiceToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.voiceToken)) != 1 {
		h.logger.Warn("Rejected voice webhook with bad token")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid webhook token"})
	}

	return h.save(c, usecase.ConversationSourceVoice)
}

func (h *ConversationHandler) save(c echo.Context, source string) error {
	var req SaveConversationRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request: " + err.Error()})
	}

	conversation := &model.Conversation{
		ConversationID: req.ConversationID,
		Transcript:     model.JSONB(req.Transcript),
		BusinessName:   optionalString(req.BusinessName),
		Challenge:      optionalString(req.Challenge),
		Outcome:        optionalString(req.Outcome),
		Email:          optionalString(req.Email),
		Source:         source,
	}

	if err := h.conversations.Save(c.Request().Context(), conversation); err != nil {
		h.logger.Error("Failed to save conversation",
			zap.String("conversation_id", req.ConversationID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save conversation"})
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
