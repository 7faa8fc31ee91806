package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records one mutating ledger call: who did what to which order,
// with the financial state before and after. Written in the same
// transaction as the mutation itself.
type AuditLog struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ActorID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"actor_id"`
	Action    string          `gorm:"size:64;not null" json:"action"`
	Before    json.RawMessage `gorm:"type:jsonb" json:"before,omitempty"`
	After     json.RawMessage `gorm:"type:jsonb" json:"after,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new audit log entry
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// LedgerState is the financial snapshot stored in audit before/after fields
type LedgerState struct {
	TotalPrice           int64  `json:"total_price"`
	ExtraFee             int64  `json:"extra_fee"`
	Received             int64  `json:"received"`
	PaymentAcceptedFully bool   `json:"payment_accepted_fully"`
	Status               string `json:"status"`
}

// CaptureLedgerState snapshots the order's financial fields for auditing
func CaptureLedgerState(o *Order) json.RawMessage {
	state := LedgerState{
		TotalPrice:           o.TotalPrice,
		ExtraFee:             o.ExtraFee,
		Received:             o.Received,
		PaymentAcceptedFully: o.PaymentAcceptedFully,
		Status:               o.Status.String(),
	}
	raw, _ := json.Marshal(state)
	return raw
}
