package enum

import (
	"database/sql/driver"
	"fmt"
)

// OrderStatus represents the workflow status of an order.
// Persisted as a closed string enum.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusPaymentPending   OrderStatus = "payment_pending"
	OrderStatusPaymentReceived  OrderStatus = "payment_received"
	OrderStatusPaymentConfirmed OrderStatus = "payment_confirmed"
	OrderStatusInProgress       OrderStatus = "in_progress"
	OrderStatusReady            OrderStatus = "ready"
	OrderStatusCompleted        OrderStatus = "completed"
	OrderStatusCancelled        OrderStatus = "cancelled"
)

// AllOrderStatuses lists every valid status value.
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaymentPending,
	OrderStatusPaymentReceived,
	OrderStatusPaymentConfirmed,
	OrderStatusInProgress,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether the value belongs to the closed enum.
func (s OrderStatus) Valid() bool {
	for _, v := range AllOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Cancellable reports whether the order can still be cancelled.
// Cancellation is reachable from any pre-completed state.
func (s OrderStatus) Cancellable() bool {
	return !s.IsTerminal()
}

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = OrderStatus(v)
	case []byte:
		*s = OrderStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into OrderStatus", value)
	}
	return nil
}
