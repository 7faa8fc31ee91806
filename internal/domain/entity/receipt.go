package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/enum"
	"github.com/translab/translab-api/pkg/money"
	"gorm.io/gorm"
)

// Receipt is a claim of payment attached to an order. It is created pending
// and settled exactly once by a staff actor: verified (crediting the order
// through the payment service) or rejected (terminal, no credit).
type Receipt struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ReceiptNo string    `gorm:"size:100;unique;not null" json:"receipt_no"`

	// Amount is the claimed value in tiyin; VerifiedAmount is what staff
	// actually confirmed, zero until verification.
	Amount         int64 `gorm:"not null;default:0" json:"-"`
	VerifiedAmount int64 `gorm:"not null;default:0" json:"-"`

	Source enum.ReceiptSource `gorm:"type:varchar(16);not null" json:"source"`
	Status enum.ReceiptStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`

	// FileID is an opaque reference into file storage (e.g. a Telegram
	// file id for a photo receipt); storage itself lives elsewhere.
	FileID  string `gorm:"size:255" json:"file_id,omitempty"`
	Comment string `gorm:"type:text" json:"comment,omitempty"`

	UploadedBy *uuid.UUID `gorm:"type:uuid" json:"uploaded_by,omitempty"`
	VerifiedBy *uuid.UUID `gorm:"type:uuid" json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// MarshalJSON exposes the tiyin-backed fields as 2-dp decimals
func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	return json.Marshal(&struct {
		Alias
		Amount         string `json:"amount"`
		VerifiedAmount string `json:"verified_amount"`
	}{
		Alias:          Alias(r),
		Amount:         money.Format(r.Amount),
		VerifiedAmount: money.Format(r.VerifiedAmount),
	})
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}
