package service

import (
	"context"
	"fmt"
	"time"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/internal/domain/pricing"
	"github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/agms/backoffice-api/pkg/apperror"
	"github.com/agms/backoffice-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptService handles stock-in operations
type ReceiptService struct {
	txManager       repository.TxManager
	receiptRepo     repository.ReceiptRepository
	receiptLineRepo repository.ReceiptLineRepository
	itemRepo        repository.ItemRepository
	agencyRepo      repository.AgencyRepository
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	txManager repository.TxManager,
	receiptRepo repository.ReceiptRepository,
	receiptLineRepo repository.ReceiptLineRepository,
	itemRepo repository.ItemRepository,
	agencyRepo repository.AgencyRepository,
) *ReceiptService {
	return &ReceiptService{
		txManager:       txManager,
		receiptRepo:     receiptRepo,
		receiptLineRepo: receiptLineRepo,
		itemRepo:        itemRepo,
		agencyRepo:      agencyRepo,
	}
}

// ReceiptLineInput represents one line of an incoming receipt
type ReceiptLineInput struct {
	ItemID    uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateReceiptInput represents the create receipt input
type CreateReceiptInput struct {
	UserID      uuid.UUID
	AgencyID    uuid.UUID
	ReceiptDate time.Time
	Lines       []ReceiptLineInput
}

// CreateReceipt records a stock-in document and increments item stock, all
// inside one transaction. Receipts never touch agency debt.
func (s *ReceiptService) CreateReceipt(ctx context.Context, input *CreateReceiptInput) (*entity.Receipt, error) {
	if len(input.Lines) == 0 {
		return nil, apperror.NewInvalidInputError("A receipt requires at least one line")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, apperror.NewInvalidInputError("Line quantity must be positive")
		}
		if !line.UnitPrice.IsPositive() {
			return nil, apperror.NewInvalidInputError("Line unit price must be positive")
		}
	}

	var receipt *entity.Receipt
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		agency, err := s.agencyRepo.GetByID(ctx, input.AgencyID)
		if err != nil {
			return err
		}
		if agency == nil {
			return apperror.NewNotFoundError("Agency")
		}

		itemIDs := make([]uuid.UUID, len(input.Lines))
		for i, line := range input.Lines {
			itemIDs[i] = line.ItemID
		}

		// Lock the affected item rows before mutating stock
		items, err := s.itemRepo.GetByIDsForUpdate(ctx, itemIDs)
		if err != nil {
			return err
		}
		itemMap := make(map[uuid.UUID]*entity.Item, len(items))
		for i := range items {
			itemMap[items[i].ID] = &items[i]
		}

		var totalAmount decimal.Decimal
		lines := make([]entity.ReceiptLine, 0, len(input.Lines))
		for _, line := range input.Lines {
			if _, exists := itemMap[line.ItemID]; !exists {
				return apperror.NewNotFoundError(fmt.Sprintf("Item %s", line.ItemID))
			}
			lineTotal := pricing.LineTotal(line.Quantity, line.UnitPrice)
			totalAmount = totalAmount.Add(lineTotal)
			lines = append(lines, entity.ReceiptLine{
				ItemID:    line.ItemID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: lineTotal,
			})
		}

		receiptDate := input.ReceiptDate
		if receiptDate.IsZero() {
			receiptDate = time.Now()
		}

		receipt = &entity.Receipt{
			ReceiptNo:   fmt.Sprintf("RCP-%s", uuid.New().String()[:8]),
			AgencyID:    input.AgencyID,
			UserID:      input.UserID,
			ReceiptDate: receiptDate,
			TotalAmount: totalAmount,
		}
		if err := s.receiptRepo.Create(ctx, receipt); err != nil {
			return err
		}

		for i := range lines {
			lines[i].ReceiptID = receipt.ID
		}
		if err := s.receiptLineRepo.CreateBatch(ctx, lines); err != nil {
			return err
		}

		for _, line := range lines {
			if err := s.itemRepo.AdjustStock(ctx, line.ItemID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.receiptRepo.GetWithLines(ctx, receipt.ID)
}

// GetReceipt retrieves a receipt with its lines
func (s *ReceiptService) GetReceipt(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// ListReceipts lists receipts with filtering
func (s *ReceiptService) ListReceipts(ctx context.Context, params *repository.ReceiptFilterParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	receipts, total, err := s.receiptRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(receipts, pag), nil
}
