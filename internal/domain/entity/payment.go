package entity

import (
	"time"

	"github.com/agms/backoffice-api/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment represents a debt-reducing collection from an agency. The debt
// reduction happens only on the pending→completed transition; once settled,
// the status is immutable (only the reason note may change).
type Payment struct {
	ID              uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	PaymentNo       string             `gorm:"size:100;unique;not null" json:"payment_no"`
	AgencyID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"agency_id"`
	UserID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	PaymentDate     time.Time          `gorm:"type:date;not null" json:"payment_date"`
	AmountCollected decimal.Decimal    `gorm:"type:decimal(15,2);not null" json:"amount_collected"`
	Status          enum.PaymentStatus `gorm:"default:0" json:"status"`
	StatusReason    *string            `gorm:"type:text" json:"status_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	DeletedAt       gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Agency *Agency `gorm:"foreignKey:AgencyID" json:"agency,omitempty"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
