package repository

import (
	"context"
	"errors"

	"github.com/agms/backoffice-api/internal/domain/entity"
	domainRepo "github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type agencyRepository struct {
	db *gorm.DB
}

// NewAgencyRepository creates a new agency repository
func NewAgencyRepository(db *gorm.DB) domainRepo.AgencyRepository {
	return &agencyRepository{db: db}
}

func (r *agencyRepository) Create(ctx context.Context, agency *entity.Agency) error {
	return dbFromContext(ctx, r.db).Create(agency).Error
}

func (r *agencyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Agency, error) {
	var agency entity.Agency
	err := dbFromContext(ctx, r.db).
		Preload("AgencyType").
		First(&agency, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &agency, err
}

// GetByIDForUpdate locks the agency row only; the agency type row is read
// without a lock since max_debt is administrative data.
func (r *agencyRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Agency, error) {
	db := dbFromContext(ctx, r.db)

	var agency entity.Agency
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&agency, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var agencyType entity.AgencyType
	if err := db.First(&agencyType, "id = ?", agency.AgencyTypeID).Error; err != nil {
		return nil, err
	}
	agency.AgencyType = &agencyType
	return &agency, nil
}

func (r *agencyRepository) Update(ctx context.Context, agency *entity.Agency) error {
	return dbFromContext(ctx, r.db).Save(agency).Error
}

func (r *agencyRepository) List(ctx context.Context, params *domainRepo.AgencyFilterParams) ([]entity.Agency, int64, error) {
	var agencies []entity.Agency
	var total int64

	query := dbFromContext(ctx, r.db).Model(&entity.Agency{})

	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	if params.AgencyTypeID != nil {
		query = query.Where("agency_type_id = ?", *params.AgencyTypeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("AgencyType").
		Order("name ASC").
		Find(&agencies).Error

	return agencies, total, err
}

// AdjustDebt applies a signed delta; the caller holds the row lock
func (r *agencyRepository) AdjustDebt(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return dbFromContext(ctx, r.db).Model(&entity.Agency{}).
		Where("id = ?", id).
		Update("debt_amount", gorm.Expr("debt_amount + ?", delta)).Error
}

type agencyTypeRepository struct {
	db *gorm.DB
}

// NewAgencyTypeRepository creates a new agency type repository
func NewAgencyTypeRepository(db *gorm.DB) domainRepo.AgencyTypeRepository {
	return &agencyTypeRepository{db: db}
}

func (r *agencyTypeRepository) Create(ctx context.Context, agencyType *entity.AgencyType) error {
	return dbFromContext(ctx, r.db).Create(agencyType).Error
}

func (r *agencyTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.AgencyType, error) {
	var agencyType entity.AgencyType
	err := dbFromContext(ctx, r.db).First(&agencyType, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &agencyType, err
}

func (r *agencyTypeRepository) GetByName(ctx context.Context, name string) (*entity.AgencyType, error) {
	var agencyType entity.AgencyType
	err := dbFromContext(ctx, r.db).First(&agencyType, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &agencyType, err
}

func (r *agencyTypeRepository) List(ctx context.Context) ([]entity.AgencyType, error) {
	var types []entity.AgencyType
	err := dbFromContext(ctx, r.db).Order("name ASC").Find(&types).Error
	return types, err
}
