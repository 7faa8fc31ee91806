package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range AllOrderStatuses {
		assert.True(t, s.Valid(), "expected %q to be valid", s)
	}
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())

	for _, s := range []OrderStatus{
		OrderStatusPending,
		OrderStatusPaymentPending,
		OrderStatusPaymentReceived,
		OrderStatusPaymentConfirmed,
		OrderStatusInProgress,
		OrderStatusReady,
	} {
		assert.False(t, s.IsTerminal(), "%q must not be terminal", s)
		assert.True(t, s.Cancellable(), "%q must be cancellable", s)
	}

	assert.False(t, OrderStatusCompleted.Cancellable())
	assert.False(t, OrderStatusCancelled.Cancellable())
}

func TestOrderStatusScan(t *testing.T) {
	var s OrderStatus
	assert.NoError(t, s.Scan("payment_confirmed"))
	assert.Equal(t, OrderStatusPaymentConfirmed, s)

	assert.NoError(t, s.Scan([]byte("ready")))
	assert.Equal(t, OrderStatusReady, s)

	assert.NoError(t, s.Scan(nil))
	assert.Equal(t, OrderStatusPending, s)

	assert.Error(t, s.Scan(42))
}

func TestReceiptStatusTerminal(t *testing.T) {
	assert.False(t, ReceiptStatusPending.IsTerminal())
	assert.True(t, ReceiptStatusVerified.IsTerminal())
	assert.True(t, ReceiptStatusRejected.IsTerminal())
}
