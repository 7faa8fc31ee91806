package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
	domainRepo "github.com/translab/translab-api/internal/domain/repository"
	"gorm.io/gorm"
)

type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository creates a new branch repository
func NewBranchRepository(db *gorm.DB) domainRepo.BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(ctx context.Context, branch *entity.Branch) error {
	return r.db.WithContext(ctx).Create(branch).Error
}

func (r *branchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	var branch entity.Branch
	err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &branch, err
}

func (r *branchRepository) ListAll(ctx context.Context) ([]entity.Branch, error) {
	var branches []entity.Branch
	err := r.db.WithContext(ctx).Find(&branches).Error
	return branches, err
}

func (r *branchRepository) ListByCenter(ctx context.Context, centerID uuid.UUID) ([]entity.Branch, error) {
	var branches []entity.Branch
	err := r.db.WithContext(ctx).Where("center_id = ?", centerID).Find(&branches).Error
	return branches, err
}

func (r *branchRepository) Update(ctx context.Context, branch *entity.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

func (r *branchRepository) CreateCenter(ctx context.Context, center *entity.Center) error {
	return r.db.WithContext(ctx).Create(center).Error
}

func (r *branchRepository) GetCenterByID(ctx context.Context, id uuid.UUID) (*entity.Center, error) {
	var center entity.Center
	err := r.db.WithContext(ctx).First(&center, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &center, err
}

func (r *branchRepository) GetCenterBySlug(ctx context.Context, slug string) (*entity.Center, error) {
	var center entity.Center
	err := r.db.WithContext(ctx).First(&center, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &center, err
}

func (r *branchRepository) IsMember(ctx context.Context, branchID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.BranchMembership{}).
		Where("branch_id = ? AND user_id = ?", branchID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *branchRepository) GetMembership(ctx context.Context, branchID, userID uuid.UUID) (*entity.BranchMembership, error) {
	var membership entity.BranchMembership
	err := r.db.WithContext(ctx).
		First(&membership, "branch_id = ? AND user_id = ?", branchID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &membership, err
}

func (r *branchRepository) AddMember(ctx context.Context, membership *entity.BranchMembership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}
