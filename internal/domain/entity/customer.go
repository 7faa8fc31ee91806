package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a bot user who places translation orders
type Customer struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BranchID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"branch_id"`
	TelegramID int64          `gorm:"index" json:"telegram_id,omitempty"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Phone      *string        `gorm:"size:50" json:"phone,omitempty"`
	Language   string         `gorm:"size:8;default:'uz'" json:"language"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Branch Branch  `gorm:"foreignKey:BranchID" json:"-"`
	Orders []Order `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
