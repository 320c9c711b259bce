package repository

import (
	"context"
	"errors"
	"time"

	"github.com/agms/backoffice-api/internal/domain/entity"
	domainRepo "github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return dbFromContext(ctx, r.db).Create(receipt).Error
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := dbFromContext(ctx, r.db).First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := dbFromContext(ctx, r.db).
		Preload("Agency").
		Preload("Lines").
		Preload("Lines.Item").
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) List(ctx context.Context, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := dbFromContext(ctx, r.db).Model(&entity.Receipt{})

	if params.AgencyID != nil {
		query = query.Where("agency_id = ?", *params.AgencyID)
	}
	if params.StartDate != nil {
		query = query.Where("receipt_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("receipt_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Agency").
		Order("receipt_date DESC, created_at DESC").
		Find(&receipts).Error

	return receipts, total, err
}

type receiptLineRepository struct {
	db *gorm.DB
}

// NewReceiptLineRepository creates a new receipt line repository
func NewReceiptLineRepository(db *gorm.DB) domainRepo.ReceiptLineRepository {
	return &receiptLineRepository{db: db}
}

func (r *receiptLineRepository) CreateBatch(ctx context.Context, lines []entity.ReceiptLine) error {
	if len(lines) == 0 {
		return nil
	}
	return dbFromContext(ctx, r.db).Create(&lines).Error
}

func (r *receiptLineRepository) GetByReceiptID(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptLine, error) {
	var lines []entity.ReceiptLine
	err := dbFromContext(ctx, r.db).
		Preload("Item").
		Where("receipt_id = ?", receiptID).
		Find(&lines).Error
	return lines, err
}

func (r *receiptLineRepository) ListByItemID(ctx context.Context, itemID uuid.UUID, start, end *time.Time) ([]entity.ReceiptLine, error) {
	var lines []entity.ReceiptLine
	query := dbFromContext(ctx, r.db).
		Preload("Receipt").
		Joins("JOIN receipts ON receipts.id = receipt_lines.receipt_id").
		Where("receipt_lines.item_id = ?", itemID)

	if start != nil {
		query = query.Where("receipts.receipt_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("receipts.receipt_date <= ?", *end)
	}

	err := query.Find(&lines).Error
	return lines, err
}

func (r *receiptLineRepository) CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&entity.ReceiptLine{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	return count, err
}
