package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/enum"
	"github.com/translab/translab-api/pkg/pagination"
)

// LedgerTx is the view of storage available inside an exclusive order lock.
// Everything done through it commits or rolls back as one transaction.
type LedgerTx interface {
	// Order returns the row read under the lock. This is the single
	// authoritative read for old values; mutate it in place and persist
	// the touched fields with UpdateOrder.
	Order() *entity.Order

	// UpdateOrder persists only the given columns of the locked order.
	// A partial update on purpose: it neither re-validates unrelated
	// invariants nor clobbers concurrent writes to other fields.
	UpdateOrder(fields map[string]interface{}) error

	// ClaimReceipt flips a receipt of this order from the expected status,
	// applying the given fields. Returns false when the receipt was not in
	// the expected status (already settled by a concurrent caller).
	ClaimReceipt(receiptID uuid.UUID, expected enum.ReceiptStatus, fields map[string]interface{}) (bool, error)

	// CreateAuditLog appends an audit entry within the transaction.
	CreateAuditLog(log *entity.AuditLog) error

	// AppendEvent queues a domain event in the outbox within the
	// transaction, so the event exists iff the mutation committed.
	AppendEvent(ev *entity.OutboxEvent) error
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error)
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	GetDueOrders(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error)

	// Ledger runs fn with the order row locked FOR UPDATE inside a single
	// transaction. Any error from fn rolls the whole transaction back.
	// Returns apperror.ErrNotFound when the order does not exist and
	// apperror.ErrConcurrency on a lock-wait timeout.
	Ledger(ctx context.Context, orderID uuid.UUID, fn func(tx LedgerTx) error) error
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.OrderStatus
	CustomerID *uuid.UUID
	AssignedTo *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
