package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
	"github.com/translab/translab-api/internal/domain/repository"
	"github.com/translab/translab-api/pkg/apperror"
	"github.com/translab/translab-api/pkg/utils"
)

// UserService handles staff account management
type UserService struct {
	userRepo   repository.UserRepository
	branchRepo repository.BranchRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, branchRepo repository.BranchRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		branchRepo: branchRepo,
	}
}

// CreateStaffInput represents the input for creating a staff account
type CreateStaffInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Phone     *string
	BranchID  uuid.UUID
}

// CreateStaff registers a staff account and attaches it to a branch
func (s *UserService) CreateStaff(ctx context.Context, input *CreateStaffInput) (*entity.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	role := input.Role
	switch role {
	case entity.RoleOwner, entity.RoleAdmin, entity.RoleStaff:
	case "":
		role = entity.RoleStaff
	default:
		return nil, apperror.NewValidationError("Invalid role: " + role)
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  hashedPassword,
		Role:      role,
		Phone:     input.Phone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if input.BranchID != uuid.Nil {
		membership := &entity.BranchMembership{
			BranchID: input.BranchID,
			UserID:   user.ID,
			Role:     role,
		}
		if err := s.branchRepo.AddMember(ctx, membership); err != nil {
			return nil, err
		}
	}

	return user, nil
}

// GetUser returns a staff user by ID
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// AddToBranch grants an existing staff user membership in a branch
func (s *UserService) AddToBranch(ctx context.Context, branchID, userID uuid.UUID, role string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	existing, err := s.branchRepo.GetMembership(ctx, branchID, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.NewConflictError("User is already a member of this branch")
	}

	if role == "" {
		role = entity.RoleStaff
	}
	return s.branchRepo.AddMember(ctx, &entity.BranchMembership{
		BranchID: branchID,
		UserID:   userID,
		Role:     role,
	})
}
