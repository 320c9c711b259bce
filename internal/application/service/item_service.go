package service

import (
	"context"
	"sort"
	"time"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/internal/domain/enum"
	"github.com/agms/backoffice-api/internal/domain/pricing"
	"github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/agms/backoffice-api/pkg/apperror"
	"github.com/agms/backoffice-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemService handles catalog item operations. Stock quantities are owned by
// the receipt and issue engines; item endpoints never write stock directly.
type ItemService struct {
	itemRepo        repository.ItemRepository
	receiptLineRepo repository.ReceiptLineRepository
	issueLineRepo   repository.IssueLineRepository
}

// NewItemService creates a new item service
func NewItemService(
	itemRepo repository.ItemRepository,
	receiptLineRepo repository.ReceiptLineRepository,
	issueLineRepo repository.IssueLineRepository,
) *ItemService {
	return &ItemService{
		itemRepo:        itemRepo,
		receiptLineRepo: receiptLineRepo,
		issueLineRepo:   issueLineRepo,
	}
}

// CreateItemInput represents the create item input
type CreateItemInput struct {
	Name      string
	Unit      string
	BasePrice decimal.Decimal
}

// CreateItem creates a catalog item with zero stock
func (s *ItemService) CreateItem(ctx context.Context, input *CreateItemInput) (*entity.Item, error) {
	if input.Name == "" {
		return nil, apperror.NewInvalidInputError("Item name is required")
	}
	if !input.BasePrice.IsPositive() {
		return nil, apperror.NewInvalidInputError("Base price must be positive")
	}

	item := &entity.Item{
		Name:      input.Name,
		Unit:      input.Unit,
		BasePrice: input.BasePrice,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem retrieves an item by ID
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}

// UpdateItemInput represents the update item input. Stock is deliberately
// absent: it moves only through receipts and issues.
type UpdateItemInput struct {
	Name      *string
	Unit      *string
	BasePrice *decimal.Decimal
}

// UpdateItem updates an item's catalog fields
func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, input *UpdateItemInput) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewInvalidInputError("Item name cannot be empty")
		}
		item.Name = *input.Name
	}
	if input.Unit != nil {
		item.Unit = *input.Unit
	}
	if input.BasePrice != nil {
		if !input.BasePrice.IsPositive() {
			return nil, apperror.NewInvalidInputError("Base price must be positive")
		}
		item.BasePrice = *input.BasePrice
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem soft-deletes an item that has no movement history. Items
// referenced by receipt or issue lines are retained for audit integrity.
func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NewNotFoundError("Item")
	}

	receiptCount, err := s.receiptLineRepo.CountByItemID(ctx, id)
	if err != nil {
		return err
	}
	issueCount, err := s.issueLineRepo.CountByItemID(ctx, id)
	if err != nil {
		return err
	}
	if receiptCount > 0 || issueCount > 0 {
		return apperror.NewConflictError("Item has movement history and cannot be deleted")
	}

	return s.itemRepo.Delete(ctx, id)
}

// ListItems lists items with filtering
func (s *ItemService) ListItems(ctx context.Context, params *repository.ItemFilterParams) (*pagination.PaginatedResult[entity.Item], error) {
	items, total, err := s.itemRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// GetLowStockItems returns items whose stock is below the threshold
func (s *ItemService) GetLowStockItems(ctx context.Context, threshold int) ([]entity.Item, error) {
	return s.itemRepo.GetLowStock(ctx, threshold)
}

// ExpectedIssuePrice exposes the markup price for an item so clients can
// pre-fill issue lines
func (s *ItemService) ExpectedIssuePrice(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, apperror.NewNotFoundError("Item")
	}
	return pricing.ExpectedIssuePrice(item.BasePrice), nil
}

// StockMovement is one stock-affecting document line for an item. Quantity
// is signed: positive for receipts, negative for issues.
type StockMovement struct {
	Date       time.Time       `json:"date"`
	DocumentNo string          `json:"document_no"`
	Type       string          `json:"type"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// GetItemMovements returns the movement history for an item, merging receipt
// lines and issue lines sorted by document date. Only confirmed or delivered
// issues count as movements; processing and cancelled issues never touched
// stock.
func (s *ItemService) GetItemMovements(ctx context.Context, id uuid.UUID, start, end *time.Time) ([]StockMovement, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}

	receiptLines, err := s.receiptLineRepo.ListByItemID(ctx, id, start, end)
	if err != nil {
		return nil, err
	}
	issueLines, err := s.issueLineRepo.ListByItemID(ctx, id, start, end)
	if err != nil {
		return nil, err
	}

	movements := make([]StockMovement, 0, len(receiptLines)+len(issueLines))
	for _, line := range receiptLines {
		movements = append(movements, StockMovement{
			Date:       line.Receipt.ReceiptDate,
			DocumentNo: line.Receipt.ReceiptNo,
			Type:       "receipt",
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			LineTotal:  line.LineTotal,
		})
	}
	for _, line := range issueLines {
		if line.Issue.Status != enum.IssueStatusConfirmed && line.Issue.Status != enum.IssueStatusDelivered {
			continue
		}
		movements = append(movements, StockMovement{
			Date:       line.Issue.IssueDate,
			DocumentNo: line.Issue.IssueNo,
			Type:       "issue",
			Quantity:   -line.Quantity,
			UnitPrice:  line.UnitPrice,
			LineTotal:  line.LineTotal,
		})
	}

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].Date.Before(movements[j].Date)
	})
	return movements, nil
}
