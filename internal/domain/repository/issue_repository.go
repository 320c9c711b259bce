package repository

import (
	"context"
	"time"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/internal/domain/enum"
	"github.com/agms/backoffice-api/pkg/pagination"
	"github.com/google/uuid"
)

// IssueRepository defines the interface for issue data operations
type IssueRepository interface {
	Create(ctx context.Context, issue *entity.Issue) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Issue, error)
	// GetByIDForUpdate retrieves an issue with a row-level exclusive lock and
	// its lines preloaded. Must run inside a transaction; this is the status
	// guard anchor for approve/reject/deliver.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Issue, error)
	GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Issue, error)
	// UpdateStatus persists a status change; reason is kept when non-nil
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.IssueStatus, reason *string) error
	List(ctx context.Context, params *IssueFilterParams) ([]entity.Issue, int64, error)
}

// IssueFilterParams contains filtering parameters for issue queries
type IssueFilterParams struct {
	Pagination *pagination.PaginationParams
	AgencyID   *uuid.UUID
	Status     *enum.IssueStatus
	StartDate  *time.Time
	EndDate    *time.Time
}

// IssueLineRepository defines the interface for issue line data operations
type IssueLineRepository interface {
	CreateBatch(ctx context.Context, lines []entity.IssueLine) error
	GetByIssueID(ctx context.Context, issueID uuid.UUID) ([]entity.IssueLine, error)
	// ListByItemID returns issue lines for an item with the parent issue
	// preloaded, for stock movement history
	ListByItemID(ctx context.Context, itemID uuid.UUID, start, end *time.Time) ([]entity.IssueLine, error)
	CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error)
}
