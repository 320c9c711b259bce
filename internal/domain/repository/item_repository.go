package repository

import (
	"context"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/pkg/pagination"
	"github.com/google/uuid"
)

// ItemRepository defines the interface for item data operations
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error)
	// GetByIDs retrieves multiple items by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error)
	// GetByIDsForUpdate retrieves items by ID with row-level exclusive locks,
	// acquiring them in ascending id order to keep the lock order fixed
	// across concurrent engine operations. Must run inside a transaction.
	GetByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ItemFilterParams) ([]entity.Item, int64, error)
	GetLowStock(ctx context.Context, threshold int) ([]entity.Item, error)
	// AdjustStock applies a signed stock delta to one item row. Callers must
	// already hold the row lock via GetByIDsForUpdate.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}

// ItemFilterParams contains filtering parameters for item queries
type ItemFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	LowStock   bool
	SortBy     string
	SortOrder  string
}
