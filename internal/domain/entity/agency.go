package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AgencyType groups agencies and carries the debt ceiling for its members
type AgencyType struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name      string          `gorm:"size:255;unique;not null" json:"name"`
	MaxDebt   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"max_debt"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relationships
	Agencies []Agency `gorm:"foreignKey:AgencyTypeID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new agency type
func (t *AgencyType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the AgencyType model
func (AgencyType) TableName() string {
	return "agency_types"
}

// Agency represents a distribution agency carrying an outstanding debt
// balance. Debt is mutated only by issue confirmation and payment settlement.
// The balance is signed: a negative value is a credit in the agency's favor.
type Agency struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AgencyTypeID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"agency_type_id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Phone         *string         `gorm:"size:50" json:"phone,omitempty"`
	Email         *string         `gorm:"size:255" json:"email,omitempty"`
	Address       *string         `gorm:"type:text" json:"address,omitempty"`
	DebtAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"debt_amount"`
	ReceptionDate time.Time       `gorm:"type:date" json:"reception_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	AgencyType *AgencyType `gorm:"foreignKey:AgencyTypeID" json:"agency_type,omitempty"`
	Issues     []Issue     `gorm:"foreignKey:AgencyID" json:"-"`
	Payments   []Payment   `gorm:"foreignKey:AgencyID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new agency
func (a *Agency) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Agency model
func (Agency) TableName() string {
	return "agencies"
}

// DebtLimit returns the ceiling derived from the agency's type.
// Requires AgencyType to be preloaded; zero limit otherwise.
func (a *Agency) DebtLimit() decimal.Decimal {
	if a.AgencyType == nil {
		return decimal.Zero
	}
	return a.AgencyType.MaxDebt
}
