package notifier

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/config"
	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	domainNotifier "github.com/adpilot-app/adpilot-backend/internal/domain/notifier"
)

// EmailNotifier sends the transactional confirmation email over SMTP. It
// also serves the abandonment sweep's one-time re-engagement email.
type EmailNotifier struct {
	config    config.SMTPConfig
	clientURL string
	logger    *zap.Logger
}

// NewEmailNotifier creates a new SMTP email notifier
func NewEmailNotifier(cfg config.SMTPConfig, clientURL string, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		config:    cfg,
		clientURL: clientURL,
		logger:    logger,
	}
}

func (n *EmailNotifier) Target() domainNotifier.Target {
	return domainNotifier.TargetEmail
}

// Notify sends the purchase confirmation email.
func (n *EmailNotifier) Notify(ctx context.Context, purchase *model.Purchase) error {
	if purchase.CustomerEmail == nil || *purchase.CustomerEmail == "" {
		n.logger.Warn("Skipping confirmation email for purchase without address",
			zap.String("transaction_id", purchase.TransactionID))
		return nil
	}

	name := "there"
	if purchase.CustomerName != nil && *purchase.CustomerName != "" {
		name = *purchase.CustomerName
	}

	subject := "Your AdPilot campaign is ready to launch"
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Thanks for your purchase. We received your payment of %s %s for the %s plan.\n\n"+
			"Your onboarding specialist will reach out within one business day. "+
			"In the meantime you can review your campaign brief at %s/dashboard.\n\n"+
			"The AdPilot Team",
		name,
		displayAmount(purchase.AmountMinor),
		purchase.Currency,
		purchase.Tier,
		n.clientURL,
	)

	return n.send(*purchase.CustomerEmail, subject, body)
}

// SendAbandonedCheckout sends the re-engagement email for a stale checkout.
func (n *EmailNotifier) SendAbandonedCheckout(ctx context.Context, pending *model.PendingCheckout) error {
	name := "there"
	if pending.DisplayName != "" {
		name = pending.DisplayName
	}

	subject := "Your AdPilot checkout is waiting"
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"You were moments away from launching your campaigns. Your %s plan "+
			"(%s %s) is still reserved.\n\n"+
			"Pick up where you left off: %s/#pricing\n\n"+
			"The AdPilot Team",
		name,
		pending.Tier,
		displayAmount(pending.AmountMinor),
		pending.Currency,
		n.clientURL,
	)

	return n.send(pending.Email, subject, body)
}

func (n *EmailNotifier) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)
	auth := smtp.PlainAuth("", n.config.User, n.config.Password, n.config.Host)

	e := email.NewEmail()
	e.From = n.config.From
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	return e.Send(addr, auth)
}

// displayAmount converts integer minor units into a display string.
func displayAmount(amountMinor int64) string {
	return decimal.NewFromInt(amountMinor).Div(decimal.NewFromInt(100)).StringFixed(2)
}

var (
	_ domainNotifier.Notifier         = (*EmailNotifier)(nil)
	_ domainNotifier.EngagementSender = (*EmailNotifier)(nil)
)
