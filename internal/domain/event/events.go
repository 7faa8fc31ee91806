package event

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/enum"
)

// Event types carried through the outbox
const (
	TypeOrderStatusChanged = "order.status_changed"
	TypePaymentReceived    = "order.payment_received"
)

// OrderStatusChanged is emitted after a committed mutation moved an order
// to a different status.
type OrderStatusChanged struct {
	OrderID   uuid.UUID        `json:"order_id"`
	OldStatus enum.OrderStatus `json:"old_status"`
	NewStatus enum.OrderStatus `json:"new_status"`
}

// PaymentReceived is emitted after a committed mutation increased the
// amount received on an order.
type PaymentReceived struct {
	OrderID  uuid.UUID `json:"order_id"`
	Delta    int64     `json:"delta"`
	NewTotal int64     `json:"new_total"`
}

// NewStatusChangedEvent wraps an OrderStatusChanged into an outbox row.
func NewStatusChangedEvent(branchID uuid.UUID, ev OrderStatusChanged) *entity.OutboxEvent {
	payload, _ := json.Marshal(ev)
	return &entity.OutboxEvent{
		BranchID:  branchID,
		OrderID:   ev.OrderID,
		EventType: TypeOrderStatusChanged,
		Payload:   payload,
		Status:    entity.OutboxStatusPending,
	}
}

// NewPaymentReceivedEvent wraps a PaymentReceived into an outbox row.
func NewPaymentReceivedEvent(branchID uuid.UUID, ev PaymentReceived) *entity.OutboxEvent {
	payload, _ := json.Marshal(ev)
	return &entity.OutboxEvent{
		BranchID:  branchID,
		OrderID:   ev.OrderID,
		EventType: TypePaymentReceived,
		Payload:   payload,
		Status:    entity.OutboxStatusPending,
	}
}
