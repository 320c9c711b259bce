package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/agms/backoffice-api/internal/domain/entity"
	domainRepo "github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) domainRepo.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	return dbFromContext(ctx, r.db).Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	var item entity.Item
	err := dbFromContext(ctx, r.db).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *itemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error) {
	if len(ids) == 0 {
		return []entity.Item{}, nil
	}
	var items []entity.Item
	err := dbFromContext(ctx, r.db).
		Where("id IN ?", ids).
		Find(&items).Error
	return items, err
}

// GetByIDsForUpdate locks item rows in ascending id order. The fixed order
// prevents lock-ordering deadlocks between concurrent engine operations.
func (r *itemRepository) GetByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error) {
	if len(ids) == 0 {
		return []entity.Item{}, nil
	}
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	var items []entity.Item
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", sorted).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	return dbFromContext(ctx, r.db).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&entity.Item{}, "id = ?", id).Error
}

func (r *itemRepository) List(ctx context.Context, params *domainRepo.ItemFilterParams) ([]entity.Item, int64, error) {
	var items []entity.Item
	var total int64

	query := dbFromContext(ctx, r.db).Model(&entity.Item{})

	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&items).Error

	return items, total, err
}

func (r *itemRepository) GetLowStock(ctx context.Context, threshold int) ([]entity.Item, error) {
	var items []entity.Item
	err := dbFromContext(ctx, r.db).
		Where("stock_quantity < ?", threshold).
		Order("stock_quantity ASC").
		Find(&items).Error
	return items, err
}

// AdjustStock applies a signed delta; the caller holds the row lock, so the
// read-modify-write is safe against concurrent engine operations.
func (r *itemRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	return dbFromContext(ctx, r.db).Model(&entity.Item{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta)).Error
}
