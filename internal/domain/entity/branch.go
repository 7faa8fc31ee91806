package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Center represents a translation-service business (the top-level tenant).
type Center struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner    User     `gorm:"foreignKey:OwnerID" json:"-"`
	Branches []Branch `gorm:"foreignKey:CenterID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new center
func (c *Center) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Center model
func (Center) TableName() string {
	return "centers"
}

// Branch is a physical office of a center and the tenant-scope unit for
// orders. It carries the delivery credentials the notification registry is
// built from; the ledger itself never reads them.
type Branch struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CenterID uuid.UUID `gorm:"type:uuid;not null;index" json:"center_id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Address  string    `gorm:"type:text" json:"address,omitempty"`
	Phone    string    `gorm:"size:50" json:"phone,omitempty"`

	// Telegram delivery target for staff notifications
	BotToken    string `gorm:"size:255" json:"-"`
	StaffChatID int64  `gorm:"default:0" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Center  Center             `gorm:"foreignKey:CenterID" json:"-"`
	Members []BranchMembership `gorm:"foreignKey:BranchID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new branch
func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Branch model
func (Branch) TableName() string {
	return "branches"
}

// BranchMembership links a staff user to a branch
type BranchMembership struct {
	BranchID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"branch_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string    `gorm:"size:50;default:'staff'" json:"role"` // owner, admin, staff
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Branch Branch `gorm:"foreignKey:BranchID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// TableName returns the table name for the BranchMembership model
func (BranchMembership) TableName() string {
	return "branch_memberships"
}
