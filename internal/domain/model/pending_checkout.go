package model

import (
	"time"
)

// PendingCheckout is an initiated-but-unresolved checkout attempt. Used only
// for abandonment recovery; a matching Purchase row (same session id) means
// the attempt resolved and must not be nudged.
type PendingCheckout struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string `gorm:"unique;not null;size:255;index" json:"session_id"`

	Email       string      `gorm:"size:255;not null" json:"email"`
	DisplayName string      `gorm:"size:255" json:"display_name"`
	AmountMinor int64       `gorm:"not null" json:"amount_minor"`
	Currency    string      `gorm:"size:3;not null" json:"currency"`
	Tier        ProductTier `gorm:"size:20;not null" json:"tier"`

	// NudgedAt marks that a re-engagement email was sent (or that the
	// attempt was found already paid at sweep time).
	NudgedAt *time.Time `gorm:"index" json:"nudged_at,omitempty"`

	CreatedAt time.Time `gorm:"default:now();index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (PendingCheckout) TableName() string {
	return "pending_checkouts"
}
