package notifier

import (
	"context"

	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
)

// Target identifies one fan-out destination.
type Target string

const (
	TargetCRM      Target = "crm"
	TargetEmail    Target = "email"
	TargetTask     Target = "task"
	TargetTracking Target = "tracking"
)

// Notifier is one independent onboarding side effect. Implementations must
// not retry internally; a failed call is reported and left to the
// reconciliation path (or an operator) to re-drive.
type Notifier interface {
	Target() Target
	Notify(ctx context.Context, purchase *model.Purchase) error
}

// TargetResult is the outcome of one fan-out target.
type TargetResult struct {
	Target Target
	Err    error
}

// Succeeded reports whether the target completed without error.
func (r TargetResult) Succeeded() bool {
	return r.Err == nil
}

// FanOutResult collects per-target outcomes of one fan-out invocation.
type FanOutResult []TargetResult

// FailedTargets returns the targets that reported an error.
func (r FanOutResult) FailedTargets() []Target {
	var failed []Target
	for _, result := range r {
		if result.Err != nil {
			failed = append(failed, result.Target)
		}
	}
	return failed
}

// EngagementSender delivers the one-time re-engagement notification for an
// abandoned checkout.
type EngagementSender interface {
	SendAbandonedCheckout(ctx context.Context, pending *model.PendingCheckout) error
}
