package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	domainNotifier "github.com/adpilot-app/adpilot-backend/internal/domain/notifier"
	"github.com/adpilot-app/adpilot-backend/pkg/messaging"
)

// FollowUpTask is the payload published for the internal ops team when a
// purchase lands.
type FollowUpTask struct {
	TaskID        string    `json:"task_id"`
	Type          string    `json:"type"`
	TransactionID string    `json:"transaction_id"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name,omitempty"`
	Tier          string    `json:"tier"`
	AmountMinor   int64     `json:"amount_minor"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
}

// TaskNotifier publishes a follow-up task on the internal redis channel
// consumed by the ops tooling.
type TaskNotifier struct {
	client  messaging.RedisClient
	channel string
	logger  *zap.Logger
}

// NewTaskNotifier creates a new task notifier
func NewTaskNotifier(client messaging.RedisClient, channel string, logger *zap.Logger) *TaskNotifier {
	return &TaskNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (n *TaskNotifier) Target() domainNotifier.Target {
	return domainNotifier.TargetTask
}

func (n *TaskNotifier) Notify(ctx context.Context, purchase *model.Purchase) error {
	task := FollowUpTask{
		TaskID:        uuid.NewString(),
		Type:          "purchase_follow_up",
		TransactionID: purchase.TransactionID,
		Tier:          string(purchase.Tier),
		AmountMinor:   purchase.AmountMinor,
		Currency:      purchase.Currency,
		CreatedAt:     time.Now(),
	}
	if purchase.CustomerEmail != nil {
		task.Email = *purchase.CustomerEmail
	}
	if purchase.CustomerName != nil {
		task.Name = *purchase.CustomerName
	}

	if err := n.client.Publish(ctx, n.channel, task); err != nil {
		return fmt.Errorf("failed to publish follow-up task: %w", err)
	}
	return nil
}

var _ domainNotifier.Notifier = (*TaskNotifier)(nil)
