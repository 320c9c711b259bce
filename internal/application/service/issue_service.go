package service

import (
	"context"
	"fmt"
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

// IssueService handles the stock-out issue workflow. Issues are created in
// processing; stock and debt are applied exactly once, on the
// processing→confirmed transition.
type IssueService struct {
	txManager     repository.TxManager
	issueRepo     repository.IssueRepository
	issueLineRepo repository.IssueLineRepository
	itemRepo      repository.ItemRepository
	agencyRepo    repository.AgencyRepository
}

// NewIssueService creates a new issue service
func NewIssueService(
	txManager repository.TxManager,
	issueRepo repository.IssueRepository,
	issueLineRepo repository.IssueLineRepository,
	itemRepo repository.ItemRepository,
	agencyRepo repository.AgencyRepository,
) *IssueService {
	return &IssueService{
		txManager:     txManager,
		issueRepo:     issueRepo,
		issueLineRepo: issueLineRepo,
		itemRepo:      itemRepo,
		agencyRepo:    agencyRepo,
	}
}

// IssueLineInput represents one line of an issue request
type IssueLineInput struct {
	ItemID    uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateIssueInput represents the create issue input
type CreateIssueInput struct {
	UserID    uuid.UUID
	AgencyID  uuid.UUID
	IssueDate time.Time
	Lines     []IssueLineInput
}

// CreateIssue records an issue in processing status. Prices are validated
// against the markup rule and the agency's debt headroom is pre-checked
// against the issue total, but stock is NOT checked or reserved here: stock
// may legitimately arrive between creation and approval.
func (s *IssueService) CreateIssue(ctx context.Context, input *CreateIssueInput) (*entity.Issue, error) {
	if len(input.Lines) == 0 {
		return nil, apperror.NewInvalidInputError("An issue requires at least one line")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, apperror.NewInvalidInputError("Line quantity must be positive")
		}
		if !line.UnitPrice.IsPositive() {
			return nil, apperror.NewInvalidInputError("Line unit price must be positive")
		}
	}

	var issue *entity.Issue
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

		items, err := s.itemRepo.GetByIDs(ctx, itemIDs)
		if err != nil {
			return err
		}
		itemMap := make(map[uuid.UUID]*entity.Item, len(items))
		for i := range items {
			itemMap[items[i].ID] = &items[i]
		}

		var totalAmount decimal.Decimal
		lines := make([]entity.IssueLine, 0, len(input.Lines))
		for _, line := range input.Lines {
			item, exists := itemMap[line.ItemID]
			if !exists {
				return apperror.NewNotFoundError(fmt.Sprintf("Item %s", line.ItemID))
			}
			if err := pricing.ValidateIssuePrice(item, line.UnitPrice); err != nil {
				return err
			}
			lineTotal := pricing.LineTotal(line.Quantity, line.UnitPrice)
			totalAmount = totalAmount.Add(lineTotal)
			lines = append(lines, entity.IssueLine{
				ItemID:    line.ItemID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				LineTotal: lineTotal,
			})
		}

		// Debt headroom pre-check against the current balance. The binding
		// check runs again under the agency lock at approval time.
		if err := pricing.CheckDebtCapacity(agency, totalAmount); err != nil {
			return err
		}

		issueDate := input.IssueDate
		if issueDate.IsZero() {
			issueDate = time.Now()
		}

		issue = &entity.Issue{
			IssueNo:     fmt.Sprintf("ISS-%s", uuid.New().String()[:8]),
			AgencyID:    input.AgencyID,
			UserID:      input.UserID,
			IssueDate:   issueDate,
			TotalAmount: totalAmount,
			Status:      enum.IssueStatusProcessing,
		}
		if err := s.issueRepo.Create(ctx, issue); err != nil {
			return err
		}

		for i := range lines {
			lines[i].IssueID = issue.ID
		}
		return s.issueLineRepo.CreateBatch(ctx, lines)
	})
	if err != nil {
		return nil, err
	}

	return s.issueRepo.GetWithLines(ctx, issue.ID)
}

// ApproveIssue moves an issue from processing to confirmed, deducting stock
// and increasing the agency's debt. The whole operation runs in one
// transaction with the issue, item, and agency rows locked; the status guard
// under the issue lock makes the stock and debt effects fire exactly once
// even under concurrent approval attempts.
func (s *IssueService) ApproveIssue(ctx context.Context, issueID uuid.UUID) (*entity.Issue, error) {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		issue, err := s.issueRepo.GetByIDForUpdate(ctx, issueID)
		if err != nil {
			return err
		}
		if issue == nil {
			return apperror.NewNotFoundError("Issue")
		}
		if !issue.Status.CanTransitionTo(enum.IssueStatusConfirmed) {
			return apperror.NewInvalidTransitionError("Issue",
				issue.Status.String(), enum.IssueStatusConfirmed.String())
		}

		// Aggregate quantities per item so repeated items lock and decrement
		// one row once
		quantities := make(map[uuid.UUID]int)
		itemIDs := make([]uuid.UUID, 0, len(issue.Lines))
		for _, line := range issue.Lines {
			if _, seen := quantities[line.ItemID]; !seen {
				itemIDs = append(itemIDs, line.ItemID)
			}
			quantities[line.ItemID] += line.Quantity
		}

		// Fixed lock order: item rows first, agency row last
		items, err := s.itemRepo.GetByIDsForUpdate(ctx, itemIDs)
		if err != nil {
			return err
		}
		if len(items) != len(itemIDs) {
			return apperror.NewNotFoundError("Item")
		}
		for i := range items {
			if err := pricing.CheckStock(&items[i], quantities[items[i].ID]); err != nil {
				return err
			}
		}

		agency, err := s.agencyRepo.GetByIDForUpdate(ctx, issue.AgencyID)
		if err != nil {
			return err
		}
		if agency == nil {
			return apperror.NewNotFoundError("Agency")
		}
		if err := pricing.CheckDebtCapacity(agency, issue.TotalAmount); err != nil {
			return err
		}

		// All checks passed; apply effects
		for _, id := range itemIDs {
			if err := s.itemRepo.AdjustStock(ctx, id, -quantities[id]); err != nil {
				return err
			}
		}
		if err := s.agencyRepo.AdjustDebt(ctx, issue.AgencyID, issue.TotalAmount); err != nil {
			return err
		}
		return s.issueRepo.UpdateStatus(ctx, issueID, enum.IssueStatusConfirmed, nil)
	})
	if err != nil {
		return nil, err
	}

	return s.issueRepo.GetWithLines(ctx, issueID)
}

// RejectIssue moves an issue from processing to cancelled. No stock or debt
// effects have been applied yet, so none need to be reversed.
func (s *IssueService) RejectIssue(ctx context.Context, issueID uuid.UUID, reason string) (*entity.Issue, error) {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		issue, err := s.issueRepo.GetByIDForUpdate(ctx, issueID)
		if err != nil {
			return err
		}
		if issue == nil {
			return apperror.NewNotFoundError("Issue")
		}
		if !issue.Status.CanTransitionTo(enum.IssueStatusCancelled) {
			return apperror.NewInvalidTransitionError("Issue",
				issue.Status.String(), enum.IssueStatusCancelled.String())
		}
		return s.issueRepo.UpdateStatus(ctx, issueID, enum.IssueStatusCancelled, &reason)
	})
	if err != nil {
		return nil, err
	}

	return s.issueRepo.GetWithLines(ctx, issueID)
}

// MarkDelivered moves a confirmed issue to delivered. This is a pure
// logistics marker with no stock or debt effects.
func (s *IssueService) MarkDelivered(ctx context.Context, issueID uuid.UUID) (*entity.Issue, error) {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		issue, err := s.issueRepo.GetByIDForUpdate(ctx, issueID)
		if err != nil {
			return err
		}
		if issue == nil {
			return apperror.NewNotFoundError("Issue")
		}
		if !issue.Status.CanTransitionTo(enum.IssueStatusDelivered) {
			return apperror.NewInvalidTransitionError("Issue",
				issue.Status.String(), enum.IssueStatusDelivered.String())
		}
		return s.issueRepo.UpdateStatus(ctx, issueID, enum.IssueStatusDelivered, nil)
	})
	if err != nil {
		return nil, err
	}

	return s.issueRepo.GetWithLines(ctx, issueID)
}

// GetIssue retrieves an issue with its lines
func (s *IssueService) GetIssue(ctx context.Context, id uuid.UUID) (*entity.Issue, error) {
	issue, err := s.issueRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, apperror.NewNotFoundError("Issue")
	}
	return issue, nil
}

// ListIssues lists issues with filtering
func (s *IssueService) ListIssues(ctx context.Context, params *repository.IssueFilterParams) (*pagination.PaginatedResult[entity.Issue], error) {
	issues, total, err := s.issueRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(issues, pag), nil
}
