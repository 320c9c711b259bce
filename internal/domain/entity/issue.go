package entity

import (
	"time"

	"github.com/agms/backoffice-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Issue represents a stock-out request moving goods to an agency. It is
// created in processing; stock deduction and the agency debt increase are
// deferred until the processing→confirmed transition.
type Issue struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	IssueNo      string           `gorm:"size:100;unique;not null" json:"issue_no"`
	AgencyID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"agency_id"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	IssueDate    time.Time        `gorm:"type:date;not null" json:"issue_date"`
	TotalAmount  decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	Status       enum.IssueStatus `gorm:"default:0" json:"status"`
	StatusReason *string          `gorm:"type:text" json:"status_reason,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Agency *Agency     `gorm:"foreignKey:AgencyID" json:"agency,omitempty"`
	Lines  []IssueLine `gorm:"foreignKey:IssueID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new issue
func (i *Issue) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Issue model
func (Issue) TableName() string {
	return "issues"
}

// IssueLine represents a line item in an issue. The unit price must match
// the markup price derived from the item's base price at creation time.
type IssueLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	IssueID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"issue_id"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relationships
	Issue Issue `gorm:"foreignKey:IssueID" json:"-"`
	Item  Item  `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// BeforeCreate generates a UUID before creating a new issue line
func (il *IssueLine) BeforeCreate(tx *gorm.DB) error {
	if il.ID == uuid.Nil {
		il.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the IssueLine model
func (IssueLine) TableName() string {
	return "issue_lines"
}
