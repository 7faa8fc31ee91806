package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/enum"
	"github.com/translab/translab-api/internal/domain/event"
	"github.com/translab/translab-api/internal/domain/repository"
	"github.com/translab/translab-api/pkg/apperror"
	"github.com/translab/translab-api/pkg/money"
	"github.com/translab/translab-api/pkg/pagination"
	"github.com/translab/translab-api/pkg/utils"
	"go.uber.org/zap"
)

// OrderService handles the operational workflow around orders: creation,
// lookup, assignment and status moves. It never computes payment state;
// money only moves through PaymentService.
type OrderService struct {
	orderRepo repository.OrderRepository
	auditRepo repository.AuditLogRepository
	logger    *zap.SugaredLogger
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repository.OrderRepository, auditRepo repository.AuditLogRepository, logger *zap.SugaredLogger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// CreateOrderInput represents the order creation input. TotalPrice arrives
// as an opaque computed amount; pricing itself happens upstream.
type CreateOrderInput struct {
	BranchID   uuid.UUID
	CenterID   uuid.UUID
	CustomerID *uuid.UUID
	TotalPrice decimal.Decimal
	Note       string
}

// Create opens a new order with nothing received and a pending status
func (s *OrderService) Create(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	totalPrice, err := money.FromDecimal(input.TotalPrice)
	if err != nil {
		return nil, apperror.NewValidationError("Invalid total price: " + err.Error())
	}

	order := &entity.Order{
		BranchID:   input.BranchID,
		CenterID:   input.CenterID,
		CustomerID: input.CustomerID,
		OrderNo:    utils.GenerateOrderNo(),
		Note:       input.Note,
		TotalPrice: totalPrice,
		Status:     enum.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Infow("order created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"branch_id", order.BranchID,
		"total_price", money.Format(order.TotalPrice),
	)
	return order, nil
}

// GetByID returns a single order
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// GetByOrderNo returns a single order by its human-facing number
func (s *OrderService) GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// List returns orders matching the given filters
func (s *OrderService) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	return s.orderRepo.List(ctx, params)
}

// ListDue returns orders that still carry an outstanding balance
func (s *OrderService) ListDue(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error) {
	if params == nil {
		params = pagination.DefaultPagination()
	}
	return s.orderRepo.GetDueOrders(ctx, params)
}

// History returns the audit trail of an order, newest first
func (s *OrderService) History(ctx context.Context, orderID uuid.UUID, params *pagination.PaginationParams) ([]entity.AuditLog, int64, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, 0, err
	}
	if order == nil {
		return nil, 0, apperror.NewNotFoundError("Order")
	}
	if params == nil {
		params = pagination.DefaultPagination()
	}
	return s.auditRepo.ListByOrder(ctx, orderID, params)
}

// Assign hands the order to a staff member for processing
func (s *OrderService) Assign(ctx context.Context, orderID, assigneeID, actorID uuid.UUID) (*entity.Order, error) {
	var assigned *entity.Order
	err := s.orderRepo.Ledger(ctx, orderID, func(tx repository.LedgerTx) error {
		order := tx.Order()
		if order.Status.IsTerminal() {
			return apperror.NewBadRequestError("Cannot assign a " + order.Status.String() + " order")
		}

		now := time.Now()
		order.AssignedTo = &assigneeID
		order.AssignedBy = &actorID
		order.AssignedAt = &now

		if err := tx.UpdateOrder(map[string]interface{}{
			"assigned_to": order.AssignedTo,
			"assigned_by": order.AssignedBy,
			"assigned_at": order.AssignedAt,
		}); err != nil {
			return err
		}

		if err := tx.CreateAuditLog(&entity.AuditLog{
			OrderID: order.ID,
			ActorID: actorID,
			Action:  "assign",
			After:   entity.CaptureLedgerState(order),
		}); err != nil {
			return err
		}

		assigned = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("order assigned",
		"order_id", orderID,
		"assigned_to", assigneeID,
		"assigned_by", actorID,
	)
	return assigned, nil
}

// UpdateStatus moves an order through the operational workflow. The write
// goes through the ledger lock so it can never interleave with a payment
// mutation, but it does not recompute any payment state.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enum.OrderStatus, actorID uuid.UUID) (*entity.Order, error) {
	if !status.Valid() {
		return nil, apperror.NewValidationError("Invalid order status: " + status.String())
	}

	var updated *entity.Order
	err := s.orderRepo.Ledger(ctx, orderID, func(tx repository.LedgerTx) error {
		order := tx.Order()
		oldStatus := order.Status

		if oldStatus == status {
			updated = order
			return nil
		}
		if oldStatus.IsTerminal() {
			return apperror.NewBadRequestError("Cannot change status of a " + oldStatus.String() + " order")
		}

		before := entity.CaptureLedgerState(order)
		now := time.Now()
		fields := map[string]interface{}{"status": status}
		order.Status = status

		if status == enum.OrderStatusCompleted {
			order.CompletedBy = &actorID
			order.CompletedAt = &now
			fields["completed_by"] = order.CompletedBy
			fields["completed_at"] = order.CompletedAt
		}

		if err := tx.UpdateOrder(fields); err != nil {
			return err
		}

		if err := tx.CreateAuditLog(&entity.AuditLog{
			OrderID: order.ID,
			ActorID: actorID,
			Action:  "update_status",
			Before:  before,
			After:   entity.CaptureLedgerState(order),
		}); err != nil {
			return err
		}

		if err := tx.AppendEvent(event.NewStatusChangedEvent(order.BranchID, event.OrderStatusChanged{
			OrderID:   order.ID,
			OldStatus: oldStatus,
			NewStatus: status,
		})); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("order status updated",
		"order_id", orderID,
		"status", status,
		"actor_id", actorID,
	)
	return updated, nil
}

// Complete marks the order finished, stamping who closed it
func (s *OrderService) Complete(ctx context.Context, orderID, actorID uuid.UUID) (*entity.Order, error) {
	return s.UpdateStatus(ctx, orderID, enum.OrderStatusCompleted, actorID)
}

// Cancel voids the order. Allowed from any pre-completed state.
func (s *OrderService) Cancel(ctx context.Context, orderID, actorID uuid.UUID) (*entity.Order, error) {
	return s.UpdateStatus(ctx, orderID, enum.OrderStatusCancelled, actorID)
}
