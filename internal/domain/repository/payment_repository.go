package repository

import (
	"context"
	"time"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/internal/domain/enum"
	"github.com/agms/backoffice-api/pkg/pagination"
	"github.com/google/uuid"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	// GetByIDForUpdate retrieves a payment with a row-level exclusive lock.
	// Must run inside a transaction; this is the settle-path status guard.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.Payment, int64, error)
}

// PaymentFilterParams contains filtering parameters for payment queries
type PaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	AgencyID   *uuid.UUID
	Status     *enum.PaymentStatus
	StartDate  *time.Time
	EndDate    *time.Time
}
