package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/enum"
	"github.com/translab/translab-api/pkg/money"
	"gorm.io/gorm"
)

// Order is the financial aggregate tracking one translation request end to
// end. All monetary fields are stored in tiyin (minor units); the decimal
// representation exists only in JSON responses.
type Order struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	BranchID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"branch_id"`
	CenterID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"center_id"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	OrderNo    string     `gorm:"size:100;unique;not null" json:"order_no"`
	Note       string     `gorm:"type:text" json:"note,omitempty"`

	// Computed pricing inputs. TotalPrice is set once at creation from the
	// catalogue; ExtraFee accumulates rush/special-handling charges.
	TotalPrice          int64  `gorm:"not null;default:0" json:"-"`
	ExtraFee            int64  `gorm:"not null;default:0" json:"-"`
	ExtraFeeDescription string `gorm:"size:255" json:"extra_fee_description,omitempty"`

	// Ledger state. Received only grows, except through an explicit reset.
	Received             int64            `gorm:"not null;default:0" json:"-"`
	PaymentAcceptedFully bool             `gorm:"not null;default:false" json:"payment_accepted_fully"`
	Status               enum.OrderStatus `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`

	// Audit stamps
	PaymentReceivedBy *uuid.UUID `gorm:"type:uuid" json:"payment_received_by,omitempty"`
	PaymentReceivedAt *time.Time `json:"payment_received_at,omitempty"`
	CompletedBy       *uuid.UUID `gorm:"type:uuid" json:"completed_by,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	AssignedTo        *uuid.UUID `gorm:"type:uuid;index" json:"assigned_to,omitempty"`
	AssignedBy        *uuid.UUID `gorm:"type:uuid" json:"assigned_by,omitempty"`
	AssignedAt        *time.Time `json:"assigned_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Branch   Branch    `gorm:"foreignKey:BranchID" json:"-"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Receipts []Receipt `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"receipts,omitempty"`
}

// TotalDue returns the full amount owed on the order.
func (o *Order) TotalDue() int64 {
	return o.TotalPrice + o.ExtraFee
}

// Remaining returns the unpaid balance. Zero whenever the order was
// accepted as fully paid, regardless of what was actually received.
func (o *Order) Remaining() int64 {
	if o.PaymentAcceptedFully {
		return 0
	}
	if r := o.TotalDue() - o.Received; r > 0 {
		return r
	}
	return 0
}

// IsFullyPaid reports whether nothing more is owed.
func (o *Order) IsFullyPaid() bool {
	return o.PaymentAcceptedFully || o.Remaining() <= 0
}

// PaymentPercentage returns how much of the total due has been received,
// capped at 100.
func (o *Order) PaymentPercentage() int {
	if o.PaymentAcceptedFully || o.TotalDue() <= 0 {
		return 100
	}
	pct := int(o.Received * 100 / o.TotalDue())
	if pct > 100 {
		return 100
	}
	return pct
}

// MarshalJSON exposes the tiyin-backed fields as 2-dp decimals
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		TotalPrice        string `json:"total_price"`
		ExtraFee          string `json:"extra_fee"`
		TotalDue          string `json:"total_due"`
		Received          string `json:"received"`
		Remaining         string `json:"remaining"`
		IsFullyPaid       bool   `json:"is_fully_paid"`
		PaymentPercentage int    `json:"payment_percentage"`
	}{
		Alias:             Alias(o),
		TotalPrice:        money.Format(o.TotalPrice),
		ExtraFee:          money.Format(o.ExtraFee),
		TotalDue:          money.Format(o.TotalDue()),
		Received:          money.Format(o.Received),
		Remaining:         money.Format(o.Remaining()),
		IsFullyPaid:       o.IsFullyPaid(),
		PaymentPercentage: o.PaymentPercentage(),
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
