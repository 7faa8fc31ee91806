package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/repository"
	"github.com/translab/translab-api/pkg/apperror"
)

// BranchService handles center and branch management
type BranchService struct {
	branchRepo repository.BranchRepository
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo repository.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// CreateCenterInput represents input for registering a translation center
type CreateCenterInput struct {
	Name    string
	Slug    string
	OwnerID uuid.UUID
}

// CreateCenter registers a new translation center
func (s *BranchService) CreateCenter(ctx context.Context, input *CreateCenterInput) (*entity.Center, error) {
	existing, err := s.branchRepo.GetCenterBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Center slug already exists")
	}

	center := &entity.Center{
		Name:    input.Name,
		Slug:    input.Slug,
		OwnerID: input.OwnerID,
	}
	if err := s.branchRepo.CreateCenter(ctx, center); err != nil {
		return nil, err
	}
	return center, nil
}

// CreateBranchInput represents input for opening a branch office
type CreateBranchInput struct {
	CenterID    uuid.UUID
	Name        string
	Address     string
	Phone       string
	BotToken    string
	StaffChatID int64
	OwnerID     uuid.UUID
}

// CreateBranch opens a branch under a center and enrolls the center owner
// as its first member
func (s *BranchService) CreateBranch(ctx context.Context, input *CreateBranchInput) (*entity.Branch, error) {
	center, err := s.branchRepo.GetCenterByID(ctx, input.CenterID)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, apperror.NewNotFoundError("Center")
	}

	branch := &entity.Branch{
		CenterID:    center.ID,
		Name:        input.Name,
		Address:     input.Address,
		Phone:       input.Phone,
		BotToken:    input.BotToken,
		StaffChatID: input.StaffChatID,
	}
	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}

	_ = s.branchRepo.AddMember(ctx, &entity.BranchMembership{
		BranchID: branch.ID,
		UserID:   center.OwnerID,
		Role:     entity.RoleOwner,
	})

	return branch, nil
}

// GetBranch retrieves a branch by ID
func (s *BranchService) GetBranch(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}
	return branch, nil
}

// ListBranches retrieves all branches of a center
func (s *BranchService) ListBranches(ctx context.Context, centerID uuid.UUID) ([]entity.Branch, error) {
	return s.branchRepo.ListByCenter(ctx, centerID)
}

// UpdateBranchInput represents input for updating a branch
type UpdateBranchInput struct {
	ID          uuid.UUID
	Name        *string
	Address     *string
	Phone       *string
	BotToken    *string
	StaffChatID *int64
}

// UpdateBranch updates a branch's details and delivery credentials. Changed
// credentials take effect on the next registry rebuild.
func (s *BranchService) UpdateBranch(ctx context.Context, input *UpdateBranchInput) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}

	if input.Name != nil {
		branch.Name = *input.Name
	}
	if input.Address != nil {
		branch.Address = *input.Address
	}
	if input.Phone != nil {
		branch.Phone = *input.Phone
	}
	if input.BotToken != nil {
		branch.BotToken = *input.BotToken
	}
	if input.StaffChatID != nil {
		branch.StaffChatID = *input.StaffChatID
	}

	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}
