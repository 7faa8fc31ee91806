package request

import "github.com/shopspring/decimal"

// CreateOrderRequest represents an order creation request. The total price
// is the already-computed quote for the job, as a 2-dp decimal string.
type CreateOrderRequest struct {
	CustomerID string          `json:"customer_id" binding:"omitempty,uuid"`
	TotalPrice decimal.Decimal `json:"total_price" binding:"required"`
	Note       string          `json:"note" binding:"max=2000"`
}

// RecordPaymentRequest represents a payment recording request. At least one
// of amount, extra_fee, or accept_fully must be present.
type RecordPaymentRequest struct {
	Amount              *decimal.Decimal `json:"amount"`
	AcceptFully         bool             `json:"accept_fully"`
	ForceAccept         bool             `json:"force_accept"`
	ExtraFee            *decimal.Decimal `json:"extra_fee"`
	ExtraFeeDescription string           `json:"extra_fee_description" binding:"max=255"`
}

// AddExtraFeeRequest represents an extra fee request
type AddExtraFeeRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=255"`
}

// UpdateOrderStatusRequest represents a workflow status change request
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignOrderRequest represents an order assignment request
type AssignOrderRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required,uuid"`
}
