package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item represents a distributable inventory item. Stock is mutated only by
// the receipt and issue engines, never through the item endpoints.
type Item struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Unit          string          `gorm:"size:50" json:"unit"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"base_price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	ReceiptLines []ReceiptLine `gorm:"foreignKey:ItemID" json:"-"`
	IssueLines   []IssueLine   `gorm:"foreignKey:ItemID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new item
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Item model
func (Item) TableName() string {
	return "items"
}
