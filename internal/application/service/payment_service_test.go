package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/enum"
	"github.com/translab/translab-api/internal/domain/event"
	"github.com/translab/translab-api/pkg/apperror"
	"go.uber.org/zap"
)

func newPaymentFixture(t *testing.T, totalPrice int64) (*PaymentService, *fakeStore, *entity.Order) {
	t.Helper()
	store := newFakeStore()
	order := store.addOrder(&entity.Order{
		OrderNo:    "ORD-TEST0001",
		TotalPrice: totalPrice,
	})
	svc := NewPaymentService(newFakeOrderRepo(store), zap.NewNop().Sugar())
	return svc, store, order
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestRecordPayment_PartialThenFull(t *testing.T) {
	svc, _, order := newPaymentFixture(t, 100000) // 1000.00
	actor := uuid.New()

	snap, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID: order.ID,
		ActorID: actor,
		Amount:  dec("300.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), snap.Received)
	assert.Equal(t, int64(70000), snap.Remaining)
	assert.Equal(t, enum.OrderStatusPaymentReceived, snap.Status)
	assert.False(t, snap.IsFullyPaid)
	assert.Equal(t, 30, snap.PaymentPercentage)

	snap, err = svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID: order.ID,
		ActorID: actor,
		Amount:  dec("700.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), snap.Received)
	assert.Equal(t, int64(0), snap.Remaining)
	assert.Equal(t, enum.OrderStatusPaymentConfirmed, snap.Status)
	assert.True(t, snap.IsFullyPaid)
	assert.Equal(t, 100, snap.PaymentPercentage)
}

func TestRecordPayment_Overpayment(t *testing.T) {
	svc, _, order := newPaymentFixture(t, 100000)

	snap, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Amount:  dec("1200.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120000), snap.Received)
	assert.Equal(t, int64(0), snap.Remaining)
	assert.Equal(t, 100, snap.PaymentPercentage)
	assert.Equal(t, enum.OrderStatusPaymentConfirmed, snap.Status)
}

func TestRecordPayment_AcceptFullyWithShortfall(t *testing.T) {
	svc, store, order := newPaymentFixture(t, 100000)
	actor := uuid.New()

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID: order.ID,
		ActorID: actor,
		Amount:  dec("400.00"),
	})
	require.NoError(t, err)

	// Without force the shortfall is an error and nothing changes.
	_, err = svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID:     order.ID,
		ActorID:     actor,
		AcceptFully: true,
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
	assert.Contains(t, appErr.Message, "400.00")
	assert.Contains(t, appErr.Message, "1000.00")
	assert.Equal(t, int64(40000), store.orders[order.ID].Received)
	assert.False(t, store.orders[order.ID].PaymentAcceptedFully)

	// With force the gap is forgiven.
	snap, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID:     order.ID,
		ActorID:     actor,
		AcceptFully: true,
		ForceAccept: true,
	})
	require.NoError(t, err)
	assert.True(t, snap.PaymentAcceptedFully)
	assert.Equal(t, int64(100000), snap.Received)
	assert.Equal(t, int64(0), snap.Remaining)
	assert.Equal(t, 100, snap.PaymentPercentage)
	assert.Equal(t, enum.OrderStatusPaymentConfirmed, snap.Status)
}

func TestRecordPayment_ConcurrentCredits(t *testing.T) {
	svc, store, order := newPaymentFixture(t, 50000) // 500.00
	actor := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
				OrderID: order.ID,
				ActorID: actor,
				Amount:  dec("100.00"),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	final := store.orders[order.ID]
	assert.Equal(t, int64(50000), final.Received)
	assert.Equal(t, enum.OrderStatusPaymentConfirmed, final.Status)
	assert.Equal(t, int64(0), final.Remaining())
}

func TestRecordPayment_Validation(t *testing.T) {
	svc, _, order := newPaymentFixture(t, 100000)
	actor := uuid.New()

	tests := []struct {
		name  string
		input *RecordPaymentInput
	}{
		{"negative amount", &RecordPaymentInput{OrderID: order.ID, ActorID: actor, Amount: dec("-10.00")}},
		{"too many decimals", &RecordPaymentInput{OrderID: order.ID, ActorID: actor, Amount: dec("10.001")}},
		{"negative fee", &RecordPaymentInput{OrderID: order.ID, ActorID: actor, ExtraFee: dec("-5.00")}},
		{"nothing to record", &RecordPaymentInput{OrderID: order.ID, ActorID: actor}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordPayment(context.Background(), tt.input)
			assert.Error(t, err)
		})
	}
}

func TestRecordPayment_OrderNotFound(t *testing.T) {
	svc, _, _ := newPaymentFixture(t, 100000)

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID: uuid.New(),
		ActorID: uuid.New(),
		Amount:  dec("10.00"),
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestRecordPayment_CancelledOrder(t *testing.T) {
	svc, store, order := newPaymentFixture(t, 100000)
	store.orders[order.ID].Status = enum.OrderStatusCancelled

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Amount:  dec("10.00"),
	})
	require.Error(t, err)
	assert.Equal(t, int64(0), store.orders[order.ID].Received)
}

func TestRecordPayment_AuditAndEvents(t *testing.T) {
	svc, store, order := newPaymentFixture(t, 100000)
	actor := uuid.New()

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID: order.ID,
		ActorID: actor,
		Amount:  dec("250.00"),
	})
	require.NoError(t, err)

	require.Len(t, store.audits, 1)
	assert.Equal(t, "record_payment", store.audits[0].Action)
	assert.Equal(t, actor, store.audits[0].ActorID)
	assert.NotEmpty(t, store.audits[0].Before)
	assert.NotEmpty(t, store.audits[0].After)

	require.Len(t, store.events, 2)
	types := []string{store.events[0].EventType, store.events[1].EventType}
	assert.Contains(t, types, event.TypeOrderStatusChanged)
	assert.Contains(t, types, event.TypePaymentReceived)

	// A repeated credit keeps the same status, so only the payment event
	// is appended the second time.
	_, err = svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID: order.ID,
		ActorID: actor,
		Amount:  dec("50.00"),
	})
	require.NoError(t, err)
	require.Len(t, store.events, 3)
	assert.Equal(t, event.TypePaymentReceived, store.events[2].EventType)
}

func TestRecordPayment_DoesNotRegressWorkflowStatus(t *testing.T) {
	svc, store, order := newPaymentFixture(t, 100000)
	store.orders[order.ID].Status = enum.OrderStatusInProgress

	snap, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID: order.ID,
		ActorID: uuid.New(),
		Amount:  dec("100.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), snap.Received)
	assert.Equal(t, enum.OrderStatusInProgress, snap.Status)
}

func TestAddExtraFee(t *testing.T) {
	svc, store, order := newPaymentFixture(t, 100000)
	actor := uuid.New()

	snap, err := svc.AddExtraFee(context.Background(), order.ID, decimal.RequireFromString("150.00"), "rush delivery", actor)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), snap.ExtraFee)
	assert.Equal(t, int64(115000), snap.TotalDue)
	assert.Equal(t, int64(115000), snap.Remaining)

	// Fees accumulate.
	snap, err = svc.AddExtraFee(context.Background(), order.ID, decimal.RequireFromString("25.00"), "notarization", actor)
	require.NoError(t, err)
	assert.Equal(t, int64(17500), snap.ExtraFee)

	stored := store.orders[order.ID]
	assert.Equal(t, int64(0), stored.Received)
	assert.Equal(t, enum.OrderStatusPending, stored.Status)
	assert.Equal(t, "notarization", stored.ExtraFeeDescription)
}

func TestAddExtraFee_Validation(t *testing.T) {
	svc, _, order := newPaymentFixture(t, 100000)
	actor := uuid.New()

	for _, amount := range []string{"0", "-10.00", "5.001"} {
		_, err := svc.AddExtraFee(context.Background(), order.ID, decimal.RequireFromString(amount), "", actor)
		assert.Error(t, err, "amount %s", amount)
	}
}

func TestAddExtraFee_OnSettledOrder(t *testing.T) {
	svc, _, order := newPaymentFixture(t, 100000)
	actor := uuid.New()

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID: order.ID,
		ActorID: actor,
		Amount:  dec("1000.00"),
	})
	require.NoError(t, err)

	// A fee on a fully paid order reopens the balance.
	snap, err := svc.AddExtraFee(context.Background(), order.ID, decimal.RequireFromString("50.00"), "late correction", actor)
	require.NoError(t, err)
	assert.Equal(t, int64(105000), snap.TotalDue)
	assert.Equal(t, int64(5000), snap.Remaining)
}

func TestResetPayment(t *testing.T) {
	svc, store, order := newPaymentFixture(t, 100000)
	actor := uuid.New()

	_, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID:     order.ID,
		ActorID:     actor,
		AcceptFully: true,
		ForceAccept: true,
	})
	require.NoError(t, err)

	snap, err := svc.ResetPayment(context.Background(), order.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.Received)
	assert.False(t, snap.PaymentAcceptedFully)
	assert.Equal(t, enum.OrderStatusPending, snap.Status)
	assert.Equal(t, int64(100000), snap.Remaining)

	stored := store.orders[order.ID]
	assert.Nil(t, stored.PaymentReceivedBy)
	assert.Nil(t, stored.PaymentReceivedAt)

	// The pre-reset state survives in the audit trail.
	last := store.audits[len(store.audits)-1]
	assert.Equal(t, "reset_payment", last.Action)
	assert.Contains(t, string(last.Before), `"payment_accepted_fully":true`)
}

func TestRecordPayment_FeeAndPaymentTogether(t *testing.T) {
	svc, _, order := newPaymentFixture(t, 100000)

	snap, err := svc.RecordPayment(context.Background(), &RecordPaymentInput{
		OrderID:             order.ID,
		ActorID:             uuid.New(),
		Amount:              dec("500.00"),
		ExtraFee:            dec("100.00"),
		ExtraFeeDescription: "urgent",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), snap.ExtraFee)
	assert.Equal(t, int64(110000), snap.TotalDue)
	assert.Equal(t, int64(50000), snap.Received)
	assert.Equal(t, int64(60000), snap.Remaining)
	assert.Equal(t, enum.OrderStatusPaymentReceived, snap.Status)
}
