package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/enum"
	"github.com/translab/translab-api/internal/domain/event"
	"github.com/translab/translab-api/internal/domain/repository"
	"github.com/translab/translab-api/pkg/apperror"
	"github.com/translab/translab-api/pkg/money"
	"go.uber.org/zap"
)

// PaymentService is the only path permitted to mutate an order's financial
// fields. Every mutation runs under an exclusive row lock on the order, in
// one transaction together with its audit entry and outbox events.
type PaymentService struct {
	orderRepo repository.OrderRepository
	logger    *zap.SugaredLogger
}

// NewPaymentService creates a new payment service
func NewPaymentService(orderRepo repository.OrderRepository, logger *zap.SugaredLogger) *PaymentService {
	return &PaymentService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// OrderSnapshot is the financial state of an order after an operation
type OrderSnapshot struct {
	OrderID              uuid.UUID        `json:"order_id"`
	TotalPrice           int64            `json:"-"`
	ExtraFee             int64            `json:"-"`
	TotalDue             int64            `json:"-"`
	Received             int64            `json:"-"`
	Remaining            int64            `json:"-"`
	PaymentAcceptedFully bool             `json:"payment_accepted_fully"`
	IsFullyPaid          bool             `json:"is_fully_paid"`
	PaymentPercentage    int              `json:"payment_percentage"`
	Status               enum.OrderStatus `json:"status"`
}

// MarshalJSON exposes the tiyin-backed fields as 2-dp decimals
func (s OrderSnapshot) MarshalJSON() ([]byte, error) {
	type Alias OrderSnapshot
	return json.Marshal(&struct {
		Alias
		TotalPrice string `json:"total_price"`
		ExtraFee   string `json:"extra_fee"`
		TotalDue   string `json:"total_due"`
		Received   string `json:"received"`
		Remaining  string `json:"remaining"`
	}{
		Alias:      Alias(s),
		TotalPrice: money.Format(s.TotalPrice),
		ExtraFee:   money.Format(s.ExtraFee),
		TotalDue:   money.Format(s.TotalDue),
		Received:   money.Format(s.Received),
		Remaining:  money.Format(s.Remaining),
	})
}

// FeeSnapshot is the result of adding an extra fee
type FeeSnapshot struct {
	OrderID   uuid.UUID `json:"order_id"`
	ExtraFee  int64     `json:"-"`
	TotalDue  int64     `json:"-"`
	Remaining int64     `json:"-"`
}

// MarshalJSON exposes the tiyin-backed fields as 2-dp decimals
func (s FeeSnapshot) MarshalJSON() ([]byte, error) {
	type Alias FeeSnapshot
	return json.Marshal(&struct {
		Alias
		ExtraFee  string `json:"extra_fee"`
		TotalDue  string `json:"total_due"`
		Remaining string `json:"remaining"`
	}{
		Alias:     Alias(s),
		ExtraFee:  money.Format(s.ExtraFee),
		TotalDue:  money.Format(s.TotalDue),
		Remaining: money.Format(s.Remaining),
	})
}

// ReceiptClaim marks a pending receipt verified inside the same locked
// transaction that credits the order, so a receipt can never credit twice.
type ReceiptClaim struct {
	ReceiptID uuid.UUID
	Comment   string
}

// RecordPaymentInput represents the record payment input. Amounts are
// boundary decimals; they are validated and converted to tiyin before the
// transaction begins.
type RecordPaymentInput struct {
	OrderID             uuid.UUID
	ActorID             uuid.UUID
	Amount              *decimal.Decimal
	AcceptFully         bool
	ForceAccept         bool
	ExtraFee            *decimal.Decimal
	ExtraFeeDescription string
	Receipt             *ReceiptClaim
}

func snapshotOf(o *entity.Order) *OrderSnapshot {
	return &OrderSnapshot{
		OrderID:              o.ID,
		TotalPrice:           o.TotalPrice,
		ExtraFee:             o.ExtraFee,
		TotalDue:             o.TotalDue(),
		Received:             o.Received,
		Remaining:            o.Remaining(),
		PaymentAcceptedFully: o.PaymentAcceptedFully,
		IsFullyPaid:          o.IsFullyPaid(),
		PaymentPercentage:    o.PaymentPercentage(),
		Status:               o.Status,
	}
}

// statusRank orders the workflow pipeline so payment-derived statuses only
// ever advance an order, never regress one that operations moved forward.
var statusRank = map[enum.OrderStatus]int{
	enum.OrderStatusPending:          0,
	enum.OrderStatusPaymentPending:   1,
	enum.OrderStatusPaymentReceived:  2,
	enum.OrderStatusPaymentConfirmed: 3,
	enum.OrderStatusInProgress:       4,
	enum.OrderStatusReady:            5,
	enum.OrderStatusCompleted:        6,
}

func advanceStatus(current, derived enum.OrderStatus) enum.OrderStatus {
	if statusRank[derived] > statusRank[current] {
		return derived
	}
	return current
}

// RecordPayment credits an order and/or accepts it as fully paid, adding
// an extra fee along the way when given. Runs under the order row lock;
// either every touched field commits or none does.
func (s *PaymentService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*OrderSnapshot, error) {
	var amount, fee int64
	var err error

	if input.Amount != nil {
		if amount, err = money.FromDecimal(*input.Amount); err != nil {
			return nil, apperror.NewValidationError("Invalid amount: " + err.Error())
		}
	}
	if input.ExtraFee != nil {
		if fee, err = money.FromDecimal(*input.ExtraFee); err != nil {
			return nil, apperror.NewValidationError("Invalid extra fee: " + err.Error())
		}
	}
	if amount == 0 && fee == 0 && !input.AcceptFully {
		return nil, apperror.NewBadRequestError("Nothing to record: no amount, fee, or acceptance given")
	}

	var snap *OrderSnapshot
	err = s.orderRepo.Ledger(ctx, input.OrderID, func(tx repository.LedgerTx) error {
		order := tx.Order()
		if order.Status == enum.OrderStatusCancelled {
			return apperror.NewPaymentError("Cannot record payment on a cancelled order")
		}

		before := entity.CaptureLedgerState(order)
		oldStatus := order.Status
		oldReceived := order.Received
		now := time.Now()
		fields := map[string]interface{}{}

		if fee > 0 {
			order.ExtraFee += fee
			fields["extra_fee"] = order.ExtraFee
			if input.ExtraFeeDescription != "" {
				order.ExtraFeeDescription = input.ExtraFeeDescription
				fields["extra_fee_description"] = order.ExtraFeeDescription
			}
		}

		switch {
		case input.AcceptFully:
			if order.Received < order.TotalDue() && !input.ForceAccept {
				return apperror.NewPaymentError(fmt.Sprintf(
					"Cannot mark as fully paid: received %s, due %s",
					money.Format(order.Received), money.Format(order.TotalDue())))
			}
			order.Received = order.TotalDue()
			order.PaymentAcceptedFully = true
			order.Status = advanceStatus(order.Status, enum.OrderStatusPaymentConfirmed)
			order.PaymentReceivedBy = &input.ActorID
			order.PaymentReceivedAt = &now
			fields["received"] = order.Received
			fields["payment_accepted_fully"] = true
			fields["status"] = order.Status
			fields["payment_received_by"] = order.PaymentReceivedBy
			fields["payment_received_at"] = order.PaymentReceivedAt

		case amount > 0:
			order.Received += amount
			derived := enum.OrderStatusPaymentReceived
			if order.Remaining() <= 0 {
				derived = enum.OrderStatusPaymentConfirmed
			}
			order.Status = advanceStatus(order.Status, derived)
			order.PaymentReceivedBy = &input.ActorID
			order.PaymentReceivedAt = &now
			fields["received"] = order.Received
			fields["status"] = order.Status
			fields["payment_received_by"] = order.PaymentReceivedBy
			fields["payment_received_at"] = order.PaymentReceivedAt
		}

		// A receipt credit must claim its pending receipt in this same
		// transaction; losing the race means another actor settled it.
		if input.Receipt != nil {
			claimed, err := tx.ClaimReceipt(input.Receipt.ReceiptID, enum.ReceiptStatusPending, map[string]interface{}{
				"status":          enum.ReceiptStatusVerified,
				"verified_amount": amount,
				"verified_by":     input.ActorID,
				"verified_at":     now,
				"comment":         input.Receipt.Comment,
			})
			if err != nil {
				return err
			}
			if !claimed {
				return apperror.NewConflictError("Receipt has already been verified or rejected")
			}
		}

		if err := tx.UpdateOrder(fields); err != nil {
			return err
		}

		if err := tx.CreateAuditLog(&entity.AuditLog{
			OrderID: order.ID,
			ActorID: input.ActorID,
			Action:  "record_payment",
			Before:  before,
			After:   entity.CaptureLedgerState(order),
		}); err != nil {
			return err
		}

		if order.Status != oldStatus {
			if err := tx.AppendEvent(event.NewStatusChangedEvent(order.BranchID, event.OrderStatusChanged{
				OrderID:   order.ID,
				OldStatus: oldStatus,
				NewStatus: order.Status,
			})); err != nil {
				return err
			}
		}
		if order.Received > oldReceived {
			if err := tx.AppendEvent(event.NewPaymentReceivedEvent(order.BranchID, event.PaymentReceived{
				OrderID:  order.ID,
				Delta:    order.Received - oldReceived,
				NewTotal: order.Received,
			})); err != nil {
				return err
			}
		}

		snap = snapshotOf(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("payment recorded",
		"order_id", input.OrderID,
		"actor_id", input.ActorID,
		"received", money.Format(snap.Received),
		"remaining", money.Format(snap.Remaining),
		"status", snap.Status,
	)
	return snap, nil
}

// AddExtraFee accumulates an additional charge onto an order. The amount
// must be strictly positive; received and status are never touched.
func (s *PaymentService) AddExtraFee(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, description string, actorID uuid.UUID) (*FeeSnapshot, error) {
	fee, err := money.FromDecimal(amount)
	if err != nil {
		return nil, apperror.NewValidationError("Invalid extra fee: " + err.Error())
	}
	if fee <= 0 {
		return nil, apperror.NewValidationError("Extra fee must be greater than zero")
	}

	var snap *FeeSnapshot
	err = s.orderRepo.Ledger(ctx, orderID, func(tx repository.LedgerTx) error {
		order := tx.Order()
		before := entity.CaptureLedgerState(order)

		order.ExtraFee += fee
		order.ExtraFeeDescription = description

		if err := tx.UpdateOrder(map[string]interface{}{
			"extra_fee":             order.ExtraFee,
			"extra_fee_description": order.ExtraFeeDescription,
		}); err != nil {
			return err
		}

		if err := tx.CreateAuditLog(&entity.AuditLog{
			OrderID: order.ID,
			ActorID: actorID,
			Action:  "add_extra_fee",
			Before:  before,
			After:   entity.CaptureLedgerState(order),
		}); err != nil {
			return err
		}

		snap = &FeeSnapshot{
			OrderID:   order.ID,
			ExtraFee:  order.ExtraFee,
			TotalDue:  order.TotalDue(),
			Remaining: order.Remaining(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("extra fee added",
		"order_id", orderID,
		"actor_id", actorID,
		"extra_fee", money.Format(snap.ExtraFee),
	)
	return snap, nil
}

// ResetPayment is a privileged corrective rollback: it zeroes everything
// received, clears the acceptance override and payment stamps, and forces
// the order back to pending. The prior state goes to the audit trail.
func (s *PaymentService) ResetPayment(ctx context.Context, orderID, actorID uuid.UUID) (*OrderSnapshot, error) {
	var snap *OrderSnapshot
	err := s.orderRepo.Ledger(ctx, orderID, func(tx repository.LedgerTx) error {
		order := tx.Order()
		before := entity.CaptureLedgerState(order)
		oldStatus := order.Status

		order.Received = 0
		order.PaymentAcceptedFully = false
		order.PaymentReceivedBy = nil
		order.PaymentReceivedAt = nil
		order.Status = enum.OrderStatusPending

		if err := tx.UpdateOrder(map[string]interface{}{
			"received":               int64(0),
			"payment_accepted_fully": false,
			"payment_received_by":    nil,
			"payment_received_at":    nil,
			"status":                 enum.OrderStatusPending,
		}); err != nil {
			return err
		}

		if err := tx.CreateAuditLog(&entity.AuditLog{
			OrderID: order.ID,
			ActorID: actorID,
			Action:  "reset_payment",
			Before:  before,
			After:   entity.CaptureLedgerState(order),
		}); err != nil {
			return err
		}

		if oldStatus != enum.OrderStatusPending {
			if err := tx.AppendEvent(event.NewStatusChangedEvent(order.BranchID, event.OrderStatusChanged{
				OrderID:   order.ID,
				OldStatus: oldStatus,
				NewStatus: enum.OrderStatusPending,
			})); err != nil {
				return err
			}
		}

		snap = snapshotOf(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Warnw("payment reset",
		"order_id", orderID,
		"actor_id", actorID,
	)
	return snap, nil
}
