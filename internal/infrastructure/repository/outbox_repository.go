package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/translab/translab-api/internal/domain/entity"
	domainRepo "github.com/translab/translab-api/internal/domain/repository"
	"gorm.io/gorm"
)

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new outbox repository
func NewOutboxRepository(db *gorm.DB) domainRepo.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]entity.OutboxEvent, error) {
	var events []entity.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.OutboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *outboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&entity.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  entity.OutboxStatusSent,
			"sent_at": &now,
		}).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, exhausted bool) error {
	status := entity.OutboxStatusPending
	if exhausted {
		status = entity.OutboxStatusFailed
	}
	return r.db.WithContext(ctx).Model(&entity.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": lastError,
		}).Error
}
