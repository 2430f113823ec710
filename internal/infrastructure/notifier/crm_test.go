package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/adpilot-app/adpilot-backend/internal/config"
	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
)

func strptr(s string) *string {
	return &s
}

func testPurchase() *model.Purchase {
	return &model.Purchase{
		TransactionID: "cs_test_1",
		CustomerEmail: strptr("buyer@example.com"),
		CustomerName:  strptr("Test Buyer"),
		AmountMinor:   4900,
		Currency:      "USD",
		Tier:          model.TierTrial,
		UTMSource:     strptr("google"),
	}
}

func TestCRMNotifier_Notify(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("upserts the contact and fires the event", func(t *testing.T) {
		var contactBody, eventBody map[string]interface{}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-api-key", r.Header.Get("api-key"))

			switch r.URL.Path {
			case "/v3/contacts":
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&contactBody))
				w.WriteHeader(http.StatusCreated)
			case "/v3/events":
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&eventBody))
				w.WriteHeader(http.StatusNoContent)
			default:
				t.Errorf("unexpected path %s", r.URL.Path)
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		notifier := NewCRMNotifier(config.CRMConfig{
			Enabled:   true,
			BaseURL:   server.URL,
			APIKey:    "test-api-key",
			ListID:    7,
			EventName: "purchase_completed",
		}, logger)

		err := notifier.Notify(ctx, testPurchase())

		assert.NoError(t, err)
		assert.Equal(t, "buyer@example.com", contactBody["email"])
		assert.Equal(t, true, contactBody["updateEnabled"])

		attributes := contactBody["attributes"].(map[string]interface{})
		assert.Equal(t, "trial", attributes["TIER"])
		assert.Equal(t, "Test Buyer", attributes["FIRSTNAME"])
		assert.Equal(t, "google", attributes["UTM_SOURCE"])

		assert.Equal(t, "purchase_completed", eventBody["event_name"])
		identifiers := eventBody["identifiers"].(map[string]interface{})
		assert.Equal(t, "buyer@example.com", identifiers["email_id"])
	})

	t.Run("purchase without email is skipped, not failed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))
		defer server.Close()

		notifier := NewCRMNotifier(config.CRMConfig{BaseURL: server.URL}, logger)

		purchase := testPurchase()
		purchase.CustomerEmail = nil

		assert.NoError(t, notifier.Notify(ctx, purchase))
	})

	t.Run("non-2xx contact response fails the sync", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		notifier := NewCRMNotifier(config.CRMConfig{BaseURL: server.URL}, logger)

		err := notifier.Notify(ctx, testPurchase())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "contact upsert failed")
	})
}
