package repository

import (
	"context"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
)

// ConversationRepository stores lead-qualification conversations.
//
// UpsertMutable deliberately carries different conflict semantics than the
// purchase store's InsertIfAbsent: conversation rows are overwritten on
// conflict because transcripts are refined over time, while purchase facts
// are immutable.
type ConversationRepository interface {
	UpsertMutable(ctx context.Context, conversation *model.Conversation) error
	GetByConversationID(ctx context.Context, conversationID string) (*model.Conversation, error)
}
