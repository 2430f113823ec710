package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Conversation is a lead-qualification transcript plus the structured fields
// extracted from it. Unlike purchases, conversation data is mutable: the live
// widget and the voice-agent webhook both refine the same row, so writes go
// through a full upsert rather than insert-if-absent.
type Conversation struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID string `gorm:"unique;not null;size:100;index" json:"conversation_id"`

	Transcript JSONB `gorm:"type:jsonb" json:"transcript,omitempty"`

	BusinessName *string `gorm:"size:255" json:"business_name,omitempty"`
	Challenge    *string `json:"challenge,omitempty"`
	Outcome      *string `json:"outcome,omitempty"`
	Email        *string `gorm:"size:255" json:"email,omitempty"`
	Source       string  `gorm:"size:20;not null" json:"source"`

	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Conversation) TableName() string {
	return "conversations"
}

// JSONB represents a JSONB database type
type JSONB map[string]interface{}

// Value implements driver.Valuer interface
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONB) Scan(src interface{}) error {
	if src == nil {
		*j = nil
		return nil
	}

	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		*j = make(JSONB)
		return nil
	}
}
