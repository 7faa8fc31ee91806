package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/event"
	"github.com/translab/translab-api/internal/domain/repository"
	"github.com/translab/translab-api/pkg/money"
	"go.uber.org/zap"
)

// Dispatcher drains the outbox in the background and delivers events to
// branch notification targets. Delivery is at-least-once and strictly
// outside any ledger transaction: a slow or failing Telegram call can never
// hold an order lock.
type Dispatcher struct {
	outboxRepo  repository.OutboxRepository
	registry    *Registry
	logger      *zap.SugaredLogger
	interval    time.Duration
	batchSize   int
	maxAttempts int
}

// NewDispatcher creates a new outbox dispatcher
func NewDispatcher(
	outboxRepo repository.OutboxRepository,
	registry *Registry,
	logger *zap.SugaredLogger,
	interval time.Duration,
	batchSize int,
	maxAttempts int,
) *Dispatcher {
	return &Dispatcher{
		outboxRepo:  outboxRepo,
		registry:    registry,
		logger:      logger,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}
}

// Run polls the outbox until the context is cancelled
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Drain(ctx)
		}
	}
}

// Drain delivers one batch of pending events
func (d *Dispatcher) Drain(ctx context.Context) {
	events, err := d.outboxRepo.FetchPending(ctx, d.batchSize)
	if err != nil {
		d.logger.Errorw("outbox fetch failed", "error", err)
		return
	}

	for _, ev := range events {
		d.deliver(ctx, &ev)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev *entity.OutboxEvent) {
	sender, ok := d.registry.Resolve(ev.BranchID)
	if !ok {
		// No delivery target configured for this branch. Not an error to
		// retry forever; park the event.
		if err := d.outboxRepo.MarkFailed(ctx, ev.ID, "no sender for branch", true); err != nil {
			d.logger.Errorw("outbox mark failed", "event_id", ev.ID, "error", err)
		}
		return
	}

	text, err := renderMessage(ev)
	if err != nil {
		d.logger.Errorw("outbox render failed", "event_id", ev.ID, "type", ev.EventType, "error", err)
		if err := d.outboxRepo.MarkFailed(ctx, ev.ID, err.Error(), true); err != nil {
			d.logger.Errorw("outbox mark failed", "event_id", ev.ID, "error", err)
		}
		return
	}

	if err := sender.Send(ctx, text); err != nil {
		exhausted := ev.Attempts+1 >= d.maxAttempts
		d.logger.Warnw("event delivery failed",
			"event_id", ev.ID,
			"type", ev.EventType,
			"attempt", ev.Attempts+1,
			"exhausted", exhausted,
			"error", err,
		)
		if err := d.outboxRepo.MarkFailed(ctx, ev.ID, err.Error(), exhausted); err != nil {
			d.logger.Errorw("outbox mark failed", "event_id", ev.ID, "error", err)
		}
		return
	}

	if err := d.outboxRepo.MarkSent(ctx, ev.ID); err != nil {
		d.logger.Errorw("outbox mark sent failed", "event_id", ev.ID, "error", err)
	}
}

func renderMessage(ev *entity.OutboxEvent) (string, error) {
	switch ev.EventType {
	case event.TypeOrderStatusChanged:
		var payload event.OrderStatusChanged
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return "", err
		}
		return fmt.Sprintf("Order %s status changed: %s to %s",
			payload.OrderID, payload.OldStatus, payload.NewStatus), nil

	case event.TypePaymentReceived:
		var payload event.PaymentReceived
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return "", err
		}
		return fmt.Sprintf("Order %s: payment of %s received, %s total",
			payload.OrderID, money.Format(payload.Delta), money.Format(payload.NewTotal)), nil

	default:
		return "", fmt.Errorf("unknown event type %q", ev.EventType)
	}
}
