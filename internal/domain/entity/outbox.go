package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Outbox event delivery states
const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// OutboxEvent is a domain event queued for post-commit delivery. Rows are
// inserted inside the same transaction as the ledger mutation that produced
// them, so an event exists if and only if its mutation committed. The
// dispatcher drains them asynchronously; delivery is at-least-once.
type OutboxEvent struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	BranchID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	EventType string          `gorm:"size:64;not null" json:"event_type"`
	Payload   json.RawMessage `gorm:"type:jsonb;not null" json:"payload"`
	Status    string          `gorm:"size:16;not null;default:'pending';index" json:"status"`
	Attempts  int             `gorm:"not null;default:0" json:"attempts"`
	LastError string          `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

// BeforeCreate generates a UUID before creating a new outbox event
func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OutboxEvent model
func (OutboxEvent) TableName() string {
	return "outbox_events"
}
