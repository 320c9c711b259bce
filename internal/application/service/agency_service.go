package service

import (
	"context"
	"time"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/agms/backoffice-api/pkg/apperror"
	"github.com/agms/backoffice-api/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgencyService handles agency and agency type operations. The debt balance
// is owned by the issue and payment engines; agency endpoints never write it.
type AgencyService struct {
	agencyRepo     repository.AgencyRepository
	agencyTypeRepo repository.AgencyTypeRepository
}

// NewAgencyService creates a new agency service
func NewAgencyService(
	agencyRepo repository.AgencyRepository,
	agencyTypeRepo repository.AgencyTypeRepository,
) *AgencyService {
	return &AgencyService{
		agencyRepo:     agencyRepo,
		agencyTypeRepo: agencyTypeRepo,
	}
}

// CreateAgencyTypeInput represents the create agency type input
type CreateAgencyTypeInput struct {
	Name    string
	MaxDebt decimal.Decimal
}

// CreateAgencyType creates an agency type carrying a debt ceiling
func (s *AgencyService) CreateAgencyType(ctx context.Context, input *CreateAgencyTypeInput) (*entity.AgencyType, error) {
	if input.Name == "" {
		return nil, apperror.NewInvalidInputError("Agency type name is required")
	}
	if input.MaxDebt.IsNegative() {
		return nil, apperror.NewInvalidInputError("Max debt cannot be negative")
	}

	existing, err := s.agencyTypeRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Agency type already exists")
	}

	agencyType := &entity.AgencyType{
		Name:    input.Name,
		MaxDebt: input.MaxDebt,
	}
	if err := s.agencyTypeRepo.Create(ctx, agencyType); err != nil {
		return nil, err
	}
	return agencyType, nil
}

// ListAgencyTypes lists all agency types
func (s *AgencyService) ListAgencyTypes(ctx context.Context) ([]entity.AgencyType, error) {
	return s.agencyTypeRepo.List(ctx)
}

// CreateAgencyInput represents the create agency input
type CreateAgencyInput struct {
	AgencyTypeID  uuid.UUID
	Name          string
	Phone         *string
	Email         *string
	Address       *string
	ReceptionDate time.Time
}

// CreateAgency creates an agency with a zero debt balance
func (s *AgencyService) CreateAgency(ctx context.Context, input *CreateAgencyInput) (*entity.Agency, error) {
	if input.Name == "" {
		return nil, apperror.NewInvalidInputError("Agency name is required")
	}

	agencyType, err := s.agencyTypeRepo.GetByID(ctx, input.AgencyTypeID)
	if err != nil {
		return nil, err
	}
	if agencyType == nil {
		return nil, apperror.NewNotFoundError("Agency type")
	}

	receptionDate := input.ReceptionDate
	if receptionDate.IsZero() {
		receptionDate = time.Now()
	}

	agency := &entity.Agency{
		AgencyTypeID:  input.AgencyTypeID,
		Name:          input.Name,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		DebtAmount:    decimal.Zero,
		ReceptionDate: receptionDate,
	}
	if err := s.agencyRepo.Create(ctx, agency); err != nil {
		return nil, err
	}

	return s.agencyRepo.GetByID(ctx, agency.ID)
}

// GetAgency retrieves an agency with its type preloaded
func (s *AgencyService) GetAgency(ctx context.Context, id uuid.UUID) (*entity.Agency, error) {
	agency, err := s.agencyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, apperror.NewNotFoundError("Agency")
	}
	return agency, nil
}

// UpdateAgencyInput represents the update agency input. The debt balance is
// deliberately absent: it moves only through issue confirmation and payment
// settlement.
type UpdateAgencyInput struct {
	AgencyTypeID *uuid.UUID
	Name         *string
	Phone        *string
	Email        *string
	Address      *string
}

// UpdateAgency updates an agency's contact and classification fields
func (s *AgencyService) UpdateAgency(ctx context.Context, id uuid.UUID, input *UpdateAgencyInput) (*entity.Agency, error) {
	agency, err := s.agencyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, apperror.NewNotFoundError("Agency")
	}

	if input.AgencyTypeID != nil {
		agencyType, err := s.agencyTypeRepo.GetByID(ctx, *input.AgencyTypeID)
		if err != nil {
			return nil, err
		}
		if agencyType == nil {
			return nil, apperror.NewNotFoundError("Agency type")
		}
		agency.AgencyTypeID = *input.AgencyTypeID
		agency.AgencyType = agencyType
	}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperror.NewInvalidInputError("Agency name cannot be empty")
		}
		agency.Name = *input.Name
	}
	if input.Phone != nil {
		agency.Phone = input.Phone
	}
	if input.Email != nil {
		agency.Email = input.Email
	}
	if input.Address != nil {
		agency.Address = input.Address
	}

	if err := s.agencyRepo.Update(ctx, agency); err != nil {
		return nil, err
	}
	return agency, nil
}

// ListAgencies lists agencies with filtering
func (s *AgencyService) ListAgencies(ctx context.Context, params *repository.AgencyFilterParams) (*pagination.PaginatedResult[entity.Agency], error) {
	agencies, total, err := s.agencyRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(agencies, pag), nil
}
