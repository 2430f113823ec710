package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/config"
	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	domainNotifier "github.com/adpilot-app/adpilot-backend/internal/domain/notifier"
)

// CRMNotifier upserts the buyer as a CRM contact and fires the
// marketing-automation trigger event for the purchase.
type CRMNotifier struct {
	config     config.CRMConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCRMNotifier creates a new CRM notifier
func NewCRMNotifier(cfg config.CRMConfig, logger *zap.Logger) *CRMNotifier {
	return &CRMNotifier{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (n *CRMNotifier) Target() domainNotifier.Target {
	return domainNotifier.TargetCRM
}

// Notify upserts the contact, then emits the automation event. Both calls
// key on the buyer email; a purchase without one cannot be synced and is
// logged rather than failed, since identity is optional on some flows.
func (n *CRMNotifier) Notify(ctx context.Context, purchase *model.Purchase) error {
	if purchase.CustomerEmail == nil || *purchase.CustomerEmail == "" {
		n.logger.Warn("Skipping CRM sync for purchase without email",
			zap.String("transaction_id", purchase.TransactionID))
		return nil
	}
	email := *purchase.CustomerEmail

	attributes := map[string]interface{}{
		"TIER": string(purchase.Tier),
	}
	if purchase.CustomerName != nil {
		attributes["FIRSTNAME"] = *purchase.CustomerName
	}
	if purchase.CustomerPhone != nil {
		attributes["SMS"] = *purchase.CustomerPhone
	}
	if purchase.UTMSource != nil {
		attributes["UTM_SOURCE"] = *purchase.UTMSource
	}

	contactBody := map[string]interface{}{
		"email":         email,
		"attributes":    attributes,
		"updateEnabled": true,
	}
	if n.config.ListID > 0 {
		contactBody["listIds"] = []int64{n.config.ListID}
	}

	if err := n.post(ctx, "/v3/contacts", contactBody); err != nil {
		return fmt.Errorf("contact upsert failed: %w", err)
	}

	eventBody := map[string]interface{}{
		"event_name": n.config.EventName,
		"identifiers": map[string]string{
			"email_id": email,
		},
		"event_properties": map[string]interface{}{
			"transaction_id": purchase.TransactionID,
			"tier":           string(purchase.Tier),
			"amount_minor":   purchase.AmountMinor,
			"currency":       purchase.Currency,
		},
	}

	if err := n.post(ctx, "/v3/events", eventBody); err != nil {
		return fmt.Errorf("automation event failed: %w", err)
	}

	return nil
}

func (n *CRMNotifier) post(ctx context.Context, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", n.config.APIKey)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("crm responded with status %d", resp.StatusCode)
	}
	return nil
}

var _ domainNotifier.Notifier = (*CRMNotifier)(nil)
