package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/enum"
	"go.uber.org/zap"
)

func newOrderFixture(t *testing.T) (*OrderService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewOrderService(newFakeOrderRepo(store), newFakeAuditRepo(store), zap.NewNop().Sugar()), store
}

func TestCreateOrder(t *testing.T) {
	svc, _ := newOrderFixture(t)

	order, err := svc.Create(context.Background(), &CreateOrderInput{
		BranchID:   uuid.New(),
		CenterID:   uuid.New(),
		TotalPrice: decimal.RequireFromString("750.50"),
		Note:       "passport translation",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.OrderNo, "ORD-"))
	assert.Equal(t, int64(75050), order.TotalPrice)
	assert.Equal(t, int64(0), order.Received)
	assert.Equal(t, enum.OrderStatusPending, order.Status)
	assert.Equal(t, int64(75050), order.Remaining())
}

func TestCreateOrder_InvalidPrice(t *testing.T) {
	svc, _ := newOrderFixture(t)

	for _, price := range []string{"-100.00", "10.999"} {
		_, err := svc.Create(context.Background(), &CreateOrderInput{
			BranchID:   uuid.New(),
			CenterID:   uuid.New(),
			TotalPrice: decimal.RequireFromString(price),
		})
		assert.Error(t, err, "price %s", price)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, store := newOrderFixture(t)
	order := store.addOrder(&entity.Order{TotalPrice: 10000, Status: enum.OrderStatusPaymentConfirmed})
	actor := uuid.New()

	updated, err := svc.UpdateStatus(context.Background(), order.ID, enum.OrderStatusInProgress, actor)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusInProgress, updated.Status)
	require.Len(t, store.events, 1)
	require.Len(t, store.audits, 1)
	assert.Equal(t, "update_status", store.audits[0].Action)

	// Writing the same status again is a no-op: no event, no audit row.
	_, err = svc.UpdateStatus(context.Background(), order.ID, enum.OrderStatusInProgress, actor)
	require.NoError(t, err)
	assert.Len(t, store.events, 1)
	assert.Len(t, store.audits, 1)
}

func TestUpdateStatus_InvalidValue(t *testing.T) {
	svc, store := newOrderFixture(t)
	order := store.addOrder(&entity.Order{TotalPrice: 10000})

	_, err := svc.UpdateStatus(context.Background(), order.ID, enum.OrderStatus("shipped"), uuid.New())
	assert.Error(t, err)
}

func TestComplete_StampsActor(t *testing.T) {
	svc, store := newOrderFixture(t)
	order := store.addOrder(&entity.Order{TotalPrice: 10000, Status: enum.OrderStatusReady})
	actor := uuid.New()

	completed, err := svc.Complete(context.Background(), order.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedBy)
	assert.Equal(t, actor, *completed.CompletedBy)
	assert.NotNil(t, completed.CompletedAt)

	// Terminal states are immutable.
	_, err = svc.UpdateStatus(context.Background(), order.ID, enum.OrderStatusInProgress, actor)
	assert.Error(t, err)
	_, err = svc.Cancel(context.Background(), order.ID, actor)
	assert.Error(t, err)
}

func TestCancel(t *testing.T) {
	svc, store := newOrderFixture(t)
	order := store.addOrder(&entity.Order{TotalPrice: 10000, Status: enum.OrderStatusInProgress})

	cancelled, err := svc.Cancel(context.Background(), order.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, enum.OrderStatusCancelled, cancelled.Status)

	// And cancelled stays cancelled.
	_, err = svc.UpdateStatus(context.Background(), order.ID, enum.OrderStatusPending, uuid.New())
	assert.Error(t, err)
}

func TestAssign(t *testing.T) {
	svc, store := newOrderFixture(t)
	order := store.addOrder(&entity.Order{TotalPrice: 10000})
	assignee, actor := uuid.New(), uuid.New()

	assigned, err := svc.Assign(context.Background(), order.ID, assignee, actor)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, assignee, *assigned.AssignedTo)
	assert.Equal(t, actor, *assigned.AssignedBy)
	assert.NotNil(t, assigned.AssignedAt)

	store.orders[order.ID].Status = enum.OrderStatusCompleted
	_, err = svc.Assign(context.Background(), order.ID, assignee, actor)
	assert.Error(t, err)
}

func TestListDue(t *testing.T) {
	svc, store := newOrderFixture(t)
	store.addOrder(&entity.Order{TotalPrice: 10000, Received: 4000})
	store.addOrder(&entity.Order{TotalPrice: 10000, Received: 10000})
	store.addOrder(&entity.Order{TotalPrice: 10000, PaymentAcceptedFully: true})
	store.addOrder(&entity.Order{TotalPrice: 10000, Status: enum.OrderStatusCancelled})

	due, total, err := svc.ListDue(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, due, 1)
	assert.Equal(t, int64(6000), due[0].Remaining())
}

func TestHistory(t *testing.T) {
	svc, store := newOrderFixture(t)
	order := store.addOrder(&entity.Order{TotalPrice: 10000, Status: enum.OrderStatusPending})
	actor := uuid.New()

	_, err := svc.UpdateStatus(context.Background(), order.ID, enum.OrderStatusPaymentPending, actor)
	require.NoError(t, err)
	_, err = svc.Assign(context.Background(), order.ID, uuid.New(), actor)
	require.NoError(t, err)

	logs, total, err := svc.History(context.Background(), order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)
	// Newest first.
	assert.Equal(t, "assign", logs[0].Action)
	assert.Equal(t, "update_status", logs[1].Action)

	_, _, err = svc.History(context.Background(), uuid.New(), nil)
	assert.Error(t, err)
}
