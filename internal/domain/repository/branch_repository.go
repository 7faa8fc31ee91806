package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
)

// BranchRepository defines the interface for branch/tenant data operations
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
	ListAll(ctx context.Context) ([]entity.Branch, error)
	ListByCenter(ctx context.Context, centerID uuid.UUID) ([]entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error

	CreateCenter(ctx context.Context, center *entity.Center) error
	GetCenterByID(ctx context.Context, id uuid.UUID) (*entity.Center, error)
	GetCenterBySlug(ctx context.Context, slug string) (*entity.Center, error)

	// IsMember checks if a staff user belongs to a branch
	IsMember(ctx context.Context, branchID, userID uuid.UUID) (bool, error)
	// GetMembership retrieves a user's membership in a branch
	GetMembership(ctx context.Context, branchID, userID uuid.UUID) (*entity.BranchMembership, error)
	// AddMember adds a staff user to a branch
	AddMember(ctx context.Context, membership *entity.BranchMembership) error
}
