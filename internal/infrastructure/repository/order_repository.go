package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/enum"
	domainRepo "github.com/translab/translab-api/internal/domain/repository"
	"github.com/translab/translab-api/pkg/apperror"
	"github.com/translab/translab-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgLockNotAvailable is the SQLSTATE raised when lock_timeout expires
// while waiting for the order row lock.
const pgLockNotAvailable = "55P03"

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx)).
		Preload("Customer").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).Scopes(BranchScope(ctx)).First(&order, "order_no = ?", orderNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{}).Scopes(BranchScope(ctx))

	if params.Search != "" {
		query = query.Where("order_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *params.AssignedTo)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

// GetDueOrders returns orders with an outstanding balance. Orders accepted
// as fully paid owe nothing by definition, whatever was received.
func (r *orderRepository) GetDueOrders(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{}).Scopes(BranchScope(ctx)).
		Where("payment_accepted_fully = false AND total_price + extra_fee > received").
		Where("status NOT IN ?", []enum.OrderStatus{enum.OrderStatusCancelled})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

// Ledger locks the order row FOR UPDATE and runs fn inside the same
// transaction. Contending callers on the same order block until commit;
// other orders are untouched.
func (r *orderRepository) Ledger(ctx context.Context, orderID uuid.UUID, fn func(tx domainRepo.LedgerTx) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entity.Order
		err := tx.Scopes(BranchScope(ctx)).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NewNotFoundError("Order")
		}
		if err != nil {
			return err
		}

		return fn(&ledgerTx{tx: tx, order: &order})
	})

	return translateLedgerError(err)
}

// translateLedgerError maps storage-level failures onto the apperror
// taxonomy. A lock-wait timeout must surface as retryable, never as a
// silent no-op.
func translateLedgerError(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
		return apperror.ErrConcurrency
	}
	return err
}

// ledgerTx implements domainRepo.LedgerTx over a locked GORM transaction
type ledgerTx struct {
	tx    *gorm.DB
	order *entity.Order
}

func (l *ledgerTx) Order() *entity.Order {
	return l.order
}

func (l *ledgerTx) UpdateOrder(fields map[string]interface{}) error {
	return l.tx.Model(&entity.Order{}).
		Where("id = ?", l.order.ID).
		Updates(fields).Error
}

func (l *ledgerTx) ClaimReceipt(receiptID uuid.UUID, expected enum.ReceiptStatus, fields map[string]interface{}) (bool, error) {
	res := l.tx.Model(&entity.Receipt{}).
		Where("id = ? AND order_id = ? AND status = ?", receiptID, l.order.ID, expected).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (l *ledgerTx) CreateAuditLog(log *entity.AuditLog) error {
	return l.tx.Create(log).Error
}

func (l *ledgerTx) AppendEvent(ev *entity.OutboxEvent) error {
	return l.tx.Create(ev).Error
}
