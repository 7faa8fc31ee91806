package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/pkg/pagination"
)

// AuditLogRepository defines read access to the ledger audit trail.
// Entries are written inside ledger transactions via LedgerTx.
type AuditLogRepository interface {
	ListByOrder(ctx context.Context, orderID uuid.UUID, params *pagination.PaginationParams) ([]entity.AuditLog, int64, error)
}
