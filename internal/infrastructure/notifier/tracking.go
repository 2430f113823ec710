package notifier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/config"
	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
	domainNotifier "github.com/adpilot-app/adpilot-backend/internal/domain/notifier"
)

// TrackingNotifier sends the server-side conversion event. The event id is
// the transaction id, shared with the client-side pixel so the ad platform
// deduplicates the browser and server events for the same purchase.
type TrackingNotifier struct {
	config     config.TrackingConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewTrackingNotifier creates a new conversion tracking notifier
func NewTrackingNotifier(cfg config.TrackingConfig, logger *zap.Logger) *TrackingNotifier {
	return &TrackingNotifier{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (n *TrackingNotifier) Target() domainNotifier.Target {
	return domainNotifier.TargetTracking
}

func (n *TrackingNotifier) Notify(ctx context.Context, purchase *model.Purchase) error {
	userData := map[string]interface{}{}
	if purchase.CustomerEmail != nil && *purchase.CustomerEmail != "" {
		userData["em"] = []string{hashIdentifier(*purchase.CustomerEmail)}
	}
	if purchase.VisitorID != nil && *purchase.VisitorID != "" {
		userData["external_id"] = []string{hashIdentifier(*purchase.VisitorID)}
	}

	body := map[string]interface{}{
		"data": []map[string]interface{}{
			{
				"event_name":    "Purchase",
				"event_time":    time.Now().Unix(),
				"event_id":      purchase.TransactionID,
				"action_source": "website",
				"user_data":     userData,
				"custom_data": map[string]interface{}{
					"value":        float64(purchase.AmountMinor) / 100,
					"currency":     purchase.Currency,
					"content_name": string(purchase.Tier),
				},
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/events?access_token=%s",
		n.config.EndpointURL, n.config.PixelID, n.config.AccessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("tracking endpoint responded with status %d", resp.StatusCode)
	}
	return nil
}

// hashIdentifier normalizes and hashes a user identifier as the ad platform
// requires for matching.
func hashIdentifier(value string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

var _ domainNotifier.Notifier = (*TrackingNotifier)(nil)
