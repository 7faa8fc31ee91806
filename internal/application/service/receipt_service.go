package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/enum"
	"github.com/translab/translab-api/internal/domain/repository"
	"github.com/translab/translab-api/pkg/apperror"
	"github.com/translab/translab-api/pkg/money"
	"github.com/translab/translab-api/pkg/utils"
	"go.uber.org/zap"
)

// ReceiptService manages payment receipt claims. Verification never credits
// an order directly: it delegates to PaymentService so the receipt flip and
// the credit share one locked transaction.
type ReceiptService struct {
	receiptRepo    repository.ReceiptRepository
	orderRepo      repository.OrderRepository
	paymentService *PaymentService
	logger         *zap.SugaredLogger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	receiptRepo repository.ReceiptRepository,
	orderRepo repository.OrderRepository,
	paymentService *PaymentService,
	logger *zap.SugaredLogger,
) *ReceiptService {
	return &ReceiptService{
		receiptRepo:    receiptRepo,
		orderRepo:      orderRepo,
		paymentService: paymentService,
		logger:         logger,
	}
}

// UploadReceiptInput represents the receipt upload input
type UploadReceiptInput struct {
	OrderID    uuid.UUID
	Amount     decimal.Decimal
	Source     enum.ReceiptSource
	FileID     string
	Comment    string
	UploadedBy *uuid.UUID
}

// Upload records a new pending receipt against an order. The claimed amount
// is advisory until a staff actor verifies it.
func (s *ReceiptService) Upload(ctx context.Context, input *UploadReceiptInput) (*entity.Receipt, error) {
	amount, err := money.FromDecimal(input.Amount)
	if err != nil {
		return nil, apperror.NewValidationError("Invalid amount: " + err.Error())
	}
	if amount <= 0 {
		return nil, apperror.NewValidationError("Receipt amount must be greater than zero")
	}
	if !input.Source.Valid() {
		return nil, apperror.NewValidationError("Invalid receipt source")
	}

	order, err := s.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status == enum.OrderStatusCancelled {
		return nil, apperror.NewBadRequestError("Cannot attach a receipt to a cancelled order")
	}

	receipt := &entity.Receipt{
		OrderID:    order.ID,
		ReceiptNo:  utils.GenerateReceiptNo(),
		Amount:     amount,
		Source:     input.Source,
		Status:     enum.ReceiptStatusPending,
		FileID:     input.FileID,
		Comment:    input.Comment,
		UploadedBy: input.UploadedBy,
	}
	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}

	s.logger.Infow("receipt uploaded",
		"receipt_id", receipt.ID,
		"order_id", order.ID,
		"amount", money.Format(amount),
		"source", input.Source,
	)
	return receipt, nil
}

// VerifyReceiptInput represents the receipt verification input. Amount
// overrides the claimed amount when set; nil means credit what was claimed.
type VerifyReceiptInput struct {
	ReceiptID uuid.UUID
	ActorID   uuid.UUID
	Amount    *decimal.Decimal
	Comment   string
}

// Verify settles a pending receipt and credits its order in one locked
// transaction. A receipt that was already verified or rejected returns a
// conflict and no money moves.
func (s *ReceiptService) Verify(ctx context.Context, input *VerifyReceiptInput) (*OrderSnapshot, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, input.ReceiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if receipt.Status.IsTerminal() {
		return nil, apperror.NewConflictError("Receipt has already been verified or rejected")
	}

	amount := money.ToDecimal(receipt.Amount)
	if input.Amount != nil {
		amount = *input.Amount
	}
	if !amount.IsPositive() {
		return nil, apperror.NewValidationError("Verified amount must be greater than zero")
	}

	// The claim inside RecordPayment re-checks pending status under the
	// order lock; the read above is only a fast path for a clear error.
	return s.paymentService.RecordPayment(ctx, &RecordPaymentInput{
		OrderID: receipt.OrderID,
		ActorID: input.ActorID,
		Amount:  &amount,
		Receipt: &ReceiptClaim{
			ReceiptID: receipt.ID,
			Comment:   input.Comment,
		},
	})
}

// Reject settles a pending receipt as rejected. No money moves, so this does
// not take the order lock; the conditional update keeps settlement exclusive.
func (s *ReceiptService) Reject(ctx context.Context, receiptID, actorID uuid.UUID, comment string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":      enum.ReceiptStatusRejected,
		"verified_by": actorID,
		"verified_at": now,
	}
	if comment != "" {
		fields["comment"] = comment
	}

	ok, err := s.receiptRepo.UpdateStatusIf(ctx, receiptID, enum.ReceiptStatusPending, fields)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewConflictError("Receipt has already been verified or rejected")
	}

	s.logger.Infow("receipt rejected",
		"receipt_id", receiptID,
		"order_id", receipt.OrderID,
		"actor_id", actorID,
	)
	return s.receiptRepo.GetByID(ctx, receiptID)
}

// GetByID returns a single receipt
func (s *ReceiptService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListByOrder returns all receipts attached to an order, newest first
func (s *ReceiptService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Receipt, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return s.receiptRepo.ListByOrder(ctx, orderID)
}
