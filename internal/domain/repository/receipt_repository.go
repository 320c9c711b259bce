package repository

import (
	"context"
	"time"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/pkg/pagination"
	"github.com/google/uuid"
)

// ReceiptRepository defines the interface for receipt data operations
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	List(ctx context.Context, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
}

// ReceiptFilterParams contains filtering parameters for receipt queries
type ReceiptFilterParams struct {
	Pagination *pagination.PaginationParams
	AgencyID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// ReceiptLineRepository defines the interface for receipt line data operations
type ReceiptLineRepository interface {
	CreateBatch(ctx context.Context, lines []entity.ReceiptLine) error
	GetByReceiptID(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptLine, error)
	// ListByItemID returns receipt lines for an item with the parent receipt
	// preloaded, for stock movement history
	ListByItemID(ctx context.Context, itemID uuid.UUID, start, end *time.Time) ([]entity.ReceiptLine, error)
	CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error)
}
