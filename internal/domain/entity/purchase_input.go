package entity

import (
	"github.com/adpilot-app/adpilot-backend/internal/domain/model"
)

// PurchaseInput is the normalized purchase shape fed to the recorder. Both
// webhook event variants and the reconciliation sweeper produce this; the
// recorder and fan-out never see provider payloads.
type PurchaseInput struct {
	TransactionID string `validate:"required"`

	CustomerID    string
	CustomerEmail string
	CustomerName  string
	CustomerPhone string

	AmountMinor int64  `validate:"gte=0"`
	Currency    string `validate:"required,len=3"`

	Tier      model.ProductTier `validate:"required,oneof=trial unlimited"`
	Recurring bool

	SubscriptionID string

	VisitorID   string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
}

// ToModel converts the input into a purchase row, mapping empty optional
// fields to NULL columns.
func (in *PurchaseInput) ToModel() *model.Purchase {
	return &model.Purchase{
		TransactionID:  in.TransactionID,
		CustomerID:     optional(in.CustomerID),
		CustomerEmail:  optional(in.CustomerEmail),
		CustomerName:   optional(in.CustomerName),
		CustomerPhone:  optional(in.CustomerPhone),
		AmountMinor:    in.AmountMinor,
		Currency:       in.Currency,
		Tier:           in.Tier,
		Recurring:      in.Recurring,
		SubscriptionID: optional(in.SubscriptionID),
		VisitorID:      optional(in.VisitorID),
		UTMSource:      optional(in.UTMSource),
		UTMMedium:      optional(in.UTMMedium),
		UTMCampaign:    optional(in.UTMCampaign),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
