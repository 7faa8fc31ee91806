package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
)

// OutboxRepository defines the interface for outbox event operations used
// by the notification dispatcher. Appending events happens inside the
// ledger transaction via LedgerTx.AppendEvent, never through this interface.
type OutboxRepository interface {
	// FetchPending returns up to limit undelivered events, oldest first.
	FetchPending(ctx context.Context, limit int) ([]entity.OutboxEvent, error)

	// MarkSent records a successful delivery.
	MarkSent(ctx context.Context, id uuid.UUID) error

	// MarkFailed bumps the attempt counter and records the delivery error.
	// When exhausted is true the event stops being retried.
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, exhausted bool) error
}
