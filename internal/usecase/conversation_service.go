package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	"github.com/adpilot-app/adpilot-backend/internal/domain/repository"
	apperrors "github.com/adpilot-app/adpilot-backend/pkg/errors"
)

// Conversation sources.
const (
	ConversationSourceWidget = "widget"
	ConversationSourceVoice  = "voice"
)

// ConversationService stores lead-qualification transcripts. Both the live
// widget and the asynchronous voice-agent webhook write through the same
// mutable upsert.
type ConversationService struct {
	conversations repository.ConversationRepository
	logger        *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(conversations repository.ConversationRepository, logger *zap.Logger) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		logger:        logger,
	}
}

// Save upserts a conversation record.
func (s *ConversationService) Save(ctx context.Context, conversation *model.Conversation) error {
	if conversation.ConversationID == "" {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "conversation id is required", nil)
	}

	if err := s.conversations.UpsertMutable(ctx, conversation); err != nil {
		return err
	}

	s.logger.Info("Conversation saved",
		zap.String("conversation_id", conversation.ConversationID),
		zap.String("source", conversation.Source))

	return nil
}

// Get returns a conversation by id, or nil when absent.
func (s *ConversationService) Get(ctx context.Context, conversationID string) (*model.Conversation, error) {
	return s.conversations.GetByConversationID(ctx, conversationID)
}
