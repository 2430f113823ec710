package model

import (
	"time"
)

// ProductTier is the plan purchased on the landing page.
type ProductTier string

const (
	TierTrial     ProductTier = "trial"
	TierUnlimited ProductTier = "unlimited"
)

// Purchase is the canonical record that a transaction completed. Rows are
// written exactly once, keyed by the provider transaction id, and never
// updated or deleted afterwards.
type Purchase struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID string `gorm:"unique;not null;size:255;index" json:"transaction_id"`

	// Customer identity. All optional; some flows lack a full profile.
	CustomerID    *string `gorm:"size:100" json:"customer_id,omitempty"`
	CustomerEmail *string `gorm:"size:255" json:"customer_email,omitempty"`
	CustomerName  *string `gorm:"size:255" json:"customer_name,omitempty"`
	CustomerPhone *string `gorm:"size:50" json:"customer_phone,omitempty"`

	// Amount in minor currency units with an ISO 4217 code.
	AmountMinor int64       `gorm:"not null" json:"amount_minor"`
	Currency    string      `gorm:"size:3;not null" json:"currency"`
	Tier        ProductTier `gorm:"size:20;not null" json:"tier"`
	Recurring   bool        `gorm:"not null;default:false" json:"recurring"`

	// SubscriptionID is set only for the recurring tier.
	SubscriptionID *string `gorm:"size:100" json:"subscription_id,omitempty"`

	// Attribution captured at checkout time.
	VisitorID   *string `gorm:"size:100" json:"visitor_id,omitempty"`
	UTMSource   *string `gorm:"size:100" json:"utm_source,omitempty"`
	UTMMedium   *string `gorm:"size:100" json:"utm_medium,omitempty"`
	UTMCampaign *string `gorm:"size:100" json:"utm_campaign,omitempty"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Purchase) TableName() string {
	return "purchases"
}
