package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt represents a stock-in transaction. Receipts increase item stock
// unconditionally and never touch agency debt.
type Receipt struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptNo   string          `gorm:"size:100;unique;not null" json:"receipt_no"`
	AgencyID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"agency_id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	ReceiptDate time.Time       `gorm:"type:date;not null" json:"receipt_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Agency *Agency       `gorm:"foreignKey:AgencyID" json:"agency,omitempty"`
	Lines  []ReceiptLine `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptLine represents a line item in a receipt. Lines are owned by their
// parent receipt and cascade-deleted with it. LineTotal is always recomputed
// server-side from quantity and unit price.
type ReceiptLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID       `gorm:"type:uuid;not null;index" json:"receipt_id"`
	ItemID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relationships
	Receipt Receipt `gorm:"foreignKey:ReceiptID" json:"-"`
	Item    Item    `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}

// BeforeCreate generates a UUID before creating a new receipt line
func (rl *ReceiptLine) BeforeCreate(tx *gorm.DB) error {
	if rl.ID == uuid.Nil {
		rl.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptLine model
func (ReceiptLine) TableName() string {
	return "receipt_lines"
}
