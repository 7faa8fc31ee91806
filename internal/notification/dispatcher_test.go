package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/event"
	"go.uber.org/zap"
)

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.OutboxEvent
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{events: make(map[uuid.UUID]*entity.OutboxEvent)}
}

func (r *fakeOutboxRepo) add(ev *entity.OutboxEvent) *entity.OutboxEvent {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.Status == "" {
		ev.Status = entity.OutboxStatusPending
	}
	r.events[ev.ID] = ev
	return ev
}

func (r *fakeOutboxRepo) FetchPending(ctx context.Context, limit int) ([]entity.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.OutboxEvent
	for _, ev := range r.events {
		if ev.Status == entity.OutboxStatusPending && len(out) < limit {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (r *fakeOutboxRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.events[id].Status = entity.OutboxStatusSent
	r.events[id].SentAt = &now
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, exhausted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev := r.events[id]
	ev.Attempts++
	ev.LastError = lastError
	if exhausted {
		ev.Status = entity.OutboxStatusFailed
	}
	return nil
}

type recordingSender struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (s *recordingSender) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, text)
	return nil
}

func newTestDispatcher(repo *fakeOutboxRepo, registry *Registry, maxAttempts int) *Dispatcher {
	return NewDispatcher(repo, registry, zap.NewNop().Sugar(), time.Millisecond, 10, maxAttempts)
}

func TestDispatcher_DeliversPendingEvents(t *testing.T) {
	repo := newFakeOutboxRepo()
	registry := NewRegistry()
	sender := &recordingSender{}
	branchID := uuid.New()
	registry.Register(branchID, sender)

	statusEv := repo.add(event.NewStatusChangedEvent(branchID, event.OrderStatusChanged{
		OrderID:   uuid.New(),
		OldStatus: "pending",
		NewStatus: "payment_received",
	}))
	paymentEv := repo.add(event.NewPaymentReceivedEvent(branchID, event.PaymentReceived{
		OrderID:  uuid.New(),
		Delta:    30000,
		NewTotal: 30000,
	}))

	d := newTestDispatcher(repo, registry, 3)
	d.Drain(context.Background())

	assert.Len(t, sender.messages, 2)
	assert.Equal(t, entity.OutboxStatusSent, repo.events[statusEv.ID].Status)
	assert.Equal(t, entity.OutboxStatusSent, repo.events[paymentEv.ID].Status)
	assert.NotNil(t, repo.events[paymentEv.ID].SentAt)

	// The payment amount reaches staff as a decimal.
	found := false
	for _, msg := range sender.messages {
		if strings.Contains(msg, "300.00") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDispatcher_RecordsFailuresAndExhausts(t *testing.T) {
	repo := newFakeOutboxRepo()
	registry := NewRegistry()
	sender := &recordingSender{err: errors.New("chat unreachable")}
	branchID := uuid.New()
	registry.Register(branchID, sender)

	ev := repo.add(event.NewPaymentReceivedEvent(branchID, event.PaymentReceived{
		OrderID:  uuid.New(),
		Delta:    5000,
		NewTotal: 5000,
	}))

	d := newTestDispatcher(repo, registry, 2)

	d.Drain(context.Background())
	assert.Equal(t, 1, repo.events[ev.ID].Attempts)
	assert.Equal(t, entity.OutboxStatusPending, repo.events[ev.ID].Status)
	assert.Equal(t, "chat unreachable", repo.events[ev.ID].LastError)

	// Second failure hits max attempts and parks the event.
	d.Drain(context.Background())
	assert.Equal(t, 2, repo.events[ev.ID].Attempts)
	assert.Equal(t, entity.OutboxStatusFailed, repo.events[ev.ID].Status)

	// A parked event is not retried again.
	d.Drain(context.Background())
	assert.Equal(t, 2, repo.events[ev.ID].Attempts)
}

func TestDispatcher_NoSenderParksEvent(t *testing.T) {
	repo := newFakeOutboxRepo()
	ev := repo.add(event.NewPaymentReceivedEvent(uuid.New(), event.PaymentReceived{
		OrderID:  uuid.New(),
		Delta:    1000,
		NewTotal: 1000,
	}))

	d := newTestDispatcher(repo, NewRegistry(), 3)
	d.Drain(context.Background())

	assert.Equal(t, entity.OutboxStatusFailed, repo.events[ev.ID].Status)
	assert.Equal(t, "no sender for branch", repo.events[ev.ID].LastError)
}

func TestRenderMessage_UnknownType(t *testing.T) {
	_, err := renderMessage(&entity.OutboxEvent{EventType: "order.exploded"})
	require.Error(t, err)
}
