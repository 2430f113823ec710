package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	domainRepo "github.com/adpilot-app/adpilot-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type conversationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ConversationRepository {
	return &conversationRepository{
		db:     db,
		logger: logger,
	}
}

// UpsertMutable writes the conversation, overwriting an existing row with
// the same conversation id. Overwrite-on-conflict is intentional here:
// transcripts are refined by later saves. Purchase rows use InsertIfAbsent
// instead; the two policies must not be merged.
func (r *conversationRepository) UpsertMutable(ctx context.Context, conversation *model.Conversation) error {
	conversation.UpdatedAt = time.Now()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "conversation_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"transcript", "business_name", "challenge", "outcome",
				"email", "source", "updated_at",
			}),
		}).
		Create(conversation).Error

	if err != nil {
		r.logger.Error("Failed to upsert conversation",
			zap.String("conversation_id", conversation.ConversationID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}

	return nil
}

// GetByConversationID retrieves a conversation by its external id
func (r *conversationRepository) GetByConversationID(ctx context.Context, conversationID string) (*model.Conversation, error) {
	var conversation model.Conversation

	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		First(&conversation).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get conversation",
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return &conversation, nil
}
