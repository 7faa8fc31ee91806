package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/enum"
	"github.com/translab/translab-api/internal/domain/repository"
	"github.com/translab/translab-api/pkg/apperror"
	"github.com/translab/translab-api/pkg/pagination"
)

// fakeStore is a shared in-memory backing store. A single mutex plays the
// role of the database row lock: ledger transactions over the same store
// are mutually exclusive, exactly like FOR UPDATE on one order row.
type fakeStore struct {
	mu       sync.Mutex
	orders   map[uuid.UUID]*entity.Order
	receipts map[uuid.UUID]*entity.Receipt
	audits   []entity.AuditLog
	events   []entity.OutboxEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:   make(map[uuid.UUID]*entity.Order),
		receipts: make(map[uuid.UUID]*entity.Receipt),
	}
}

func (s *fakeStore) addOrder(o *entity.Order) *entity.Order {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.BranchID == uuid.Nil {
		o.BranchID = uuid.New()
	}
	if o.Status == "" {
		o.Status = enum.OrderStatusPending
	}
	s.orders[o.ID] = o
	return o
}

// fakeLedgerTx stages mutations against a working copy of the order; the
// fake repository commits them only when the callback succeeds.
type fakeLedgerTx struct {
	store *fakeStore
	order *entity.Order

	updatedFields map[string]interface{}
	audits        []entity.AuditLog
	events        []entity.OutboxEvent
	receiptClaims []receiptClaim
}

type receiptClaim struct {
	id     uuid.UUID
	fields map[string]interface{}
}

func (tx *fakeLedgerTx) Order() *entity.Order { return tx.order }

func (tx *fakeLedgerTx) UpdateOrder(fields map[string]interface{}) error {
	if tx.updatedFields == nil {
		tx.updatedFields = make(map[string]interface{})
	}
	for k, v := range fields {
		tx.updatedFields[k] = v
	}
	return nil
}

func (tx *fakeLedgerTx) ClaimReceipt(receiptID uuid.UUID, expected enum.ReceiptStatus, fields map[string]interface{}) (bool, error) {
	rc, ok := tx.store.receipts[receiptID]
	if !ok || rc.OrderID != tx.order.ID || rc.Status != expected {
		return false, nil
	}
	tx.receiptClaims = append(tx.receiptClaims, receiptClaim{id: receiptID, fields: fields})
	return true, nil
}

func (tx *fakeLedgerTx) CreateAuditLog(log *entity.AuditLog) error {
	tx.audits = append(tx.audits, *log)
	return nil
}

func (tx *fakeLedgerTx) AppendEvent(ev *entity.OutboxEvent) error {
	tx.events = append(tx.events, *ev)
	return nil
}

type fakeOrderRepo struct {
	store *fakeStore
}

func newFakeOrderRepo(store *fakeStore) *fakeOrderRepo {
	return &fakeOrderRepo{store: store}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.addOrder(order)
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.orders {
		if o.OrderNo == orderNo {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Order
	for _, o := range r.store.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) GetDueOrders(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Order
	for _, o := range r.store.orders {
		if !o.PaymentAcceptedFully && o.TotalDue() > o.Received && o.Status != enum.OrderStatusCancelled {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) Ledger(ctx context.Context, orderID uuid.UUID, fn func(tx repository.LedgerTx) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.orders[orderID]
	if !ok {
		return apperror.NewNotFoundError("Order")
	}

	work := *stored
	tx := &fakeLedgerTx{store: r.store, order: &work}
	if err := fn(tx); err != nil {
		return err
	}

	*stored = work
	r.store.audits = append(r.store.audits, tx.audits...)
	r.store.events = append(r.store.events, tx.events...)
	for _, claim := range tx.receiptClaims {
		applyReceiptFields(r.store.receipts[claim.id], claim.fields)
	}
	return nil
}

func applyReceiptFields(rc *entity.Receipt, fields map[string]interface{}) {
	for k, v := range fields {
		switch k {
		case "status":
			rc.Status = v.(enum.ReceiptStatus)
		case "verified_amount":
			rc.VerifiedAmount = v.(int64)
		case "verified_by":
			id := v.(uuid.UUID)
			rc.VerifiedBy = &id
		case "verified_at":
			t := v.(time.Time)
			rc.VerifiedAt = &t
		case "comment":
			rc.Comment = v.(string)
		}
	}
}

type fakeAuditRepo struct {
	store *fakeStore
}

func newFakeAuditRepo(store *fakeStore) *fakeAuditRepo {
	return &fakeAuditRepo{store: store}
}

func (r *fakeAuditRepo) ListByOrder(ctx context.Context, orderID uuid.UUID, params *pagination.PaginationParams) ([]entity.AuditLog, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.AuditLog
	for i := len(r.store.audits) - 1; i >= 0; i-- {
		if r.store.audits[i].OrderID == orderID {
			out = append(out, r.store.audits[i])
		}
	}
	return out, int64(len(out)), nil
}

type fakeReceiptRepo struct {
	store *fakeStore
}

func newFakeReceiptRepo(store *fakeStore) *fakeReceiptRepo {
	return &fakeReceiptRepo{store: store}
}

func (r *fakeReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	cp := *receipt
	r.store.receipts[receipt.ID] = &cp
	return nil
}

func (r *fakeReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rc, ok := r.store.receipts[id]
	if !ok {
		return nil, nil
	}
	cp := *rc
	return &cp, nil
}

func (r *fakeReceiptRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Receipt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Receipt
	for _, rc := range r.store.receipts {
		if rc.OrderID == orderID {
			out = append(out, *rc)
		}
	}
	return out, nil
}

func (r *fakeReceiptRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected enum.ReceiptStatus, fields map[string]interface{}) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	rc, ok := r.store.receipts[id]
	if !ok || rc.Status != expected {
		return false, nil
	}
	applyReceiptFields(rc, fields)
	return true, nil
}
