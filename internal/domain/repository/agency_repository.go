package repository

import (
	"context"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgencyRepository defines the interface for agency data operations
type AgencyRepository interface {
	Create(ctx context.Context, agency *entity.Agency) error
	// GetByID retrieves an agency with its type preloaded
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Agency, error)
	// GetByIDForUpdate retrieves an agency with a row-level exclusive lock on
	// the agency row. The agency type is loaded without a lock. Must run
	// inside a transaction, after any item locks (fixed lock order).
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Agency, error)
	Update(ctx context.Context, agency *entity.Agency) error
	List(ctx context.Context, params *AgencyFilterParams) ([]entity.Agency, int64, error)
	// AdjustDebt applies a signed debt delta to one agency row. Callers must
	// already hold the row lock via GetByIDForUpdate.
	AdjustDebt(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

// AgencyFilterParams contains filtering parameters for agency queries
type AgencyFilterParams struct {
	Pagination   *pagination.PaginationParams
	Search       string
	AgencyTypeID *uuid.UUID
}

// AgencyTypeRepository defines the interface for agency type data operations
type AgencyTypeRepository interface {
	Create(ctx context.Context, agencyType *entity.AgencyType) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.AgencyType, error)
	GetByName(ctx context.Context, name string) (*entity.AgencyType, error)
	List(ctx context.Context) ([]entity.AgencyType, error)
}
