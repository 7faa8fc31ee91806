package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/enum"
)

// ReceiptRepository defines the interface for receipt data operations.
// Receipts are append-only claims; settling one (verify/reject) goes either
// through LedgerTx.ClaimReceipt (verification, which credits the order) or
// through UpdateStatusIf (rejection, which touches no money).
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]entity.Receipt, error)

	// UpdateStatusIf applies fields only if the receipt currently has the
	// expected status. Returns false when another caller settled it first.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected enum.ReceiptStatus, fields map[string]interface{}) (bool, error)
}
