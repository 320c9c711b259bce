package repository

import (
	"context"
	"errors"
	"time"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/internal/domain/enum"
	domainRepo "github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type issueRepository struct {
	db *gorm.DB
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(db *gorm.DB) domainRepo.IssueRepository {
	return &issueRepository{db: db}
}

func (r *issueRepository) Create(ctx context.Context, issue *entity.Issue) error {
	return dbFromContext(ctx, r.db).Create(issue).Error
}

func (r *issueRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Issue, error) {
	var issue entity.Issue
	err := dbFromContext(ctx, r.db).First(&issue, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &issue, err
}

// GetByIDForUpdate locks the issue row, then loads its lines. The lock makes
// the status read authoritative for the rest of the transaction, so a
// concurrent transition on the same issue serializes behind it.
func (r *issueRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Issue, error) {
	db := dbFromContext(ctx, r.db)

	var issue entity.Issue
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&issue, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := db.Where("issue_id = ?", issue.ID).Find(&issue.Lines).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

func (r *issueRepository) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Issue, error) {
	var issue entity.Issue
	err := dbFromContext(ctx, r.db).
		Preload("Agency").
		Preload("Agency.AgencyType").
		Preload("Lines").
		Preload("Lines.Item").
		First(&issue, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &issue, err
}

func (r *issueRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.IssueStatus, reason *string) error {
	updates := map[string]interface{}{"status": status}
	if reason != nil {
		updates["status_reason"] = *reason
	}
	return dbFromContext(ctx, r.db).Model(&entity.Issue{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *issueRepository) List(ctx context.Context, params *domainRepo.IssueFilterParams) ([]entity.Issue, int64, error) {
	var issues []entity.Issue
	var total int64

	query := dbFromContext(ctx, r.db).Model(&entity.Issue{})

	if params.AgencyID != nil {
		query = query.Where("agency_id = ?", *params.AgencyID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.StartDate != nil {
		query = query.Where("issue_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("issue_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Agency").
		Order("issue_date DESC, created_at DESC").
		Find(&issues).Error

	return issues, total, err
}

type issueLineRepository struct {
	db *gorm.DB
}

// NewIssueLineRepository creates a new issue line repository
func NewIssueLineRepository(db *gorm.DB) domainRepo.IssueLineRepository {
	return &issueLineRepository{db: db}
}

func (r *issueLineRepository) CreateBatch(ctx context.Context, lines []entity.IssueLine) error {
	if len(lines) == 0 {
		return nil
	}
	return dbFromContext(ctx, r.db).Create(&lines).Error
}

func (r *issueLineRepository) GetByIssueID(ctx context.Context, issueID uuid.UUID) ([]entity.IssueLine, error) {
	var lines []entity.IssueLine
	err := dbFromContext(ctx, r.db).
		Preload("Item").
		Where("issue_id = ?", issueID).
		Find(&lines).Error
	return lines, err
}

func (r *issueLineRepository) ListByItemID(ctx context.Context, itemID uuid.UUID, start, end *time.Time) ([]entity.IssueLine, error) {
	var lines []entity.IssueLine
	query := dbFromContext(ctx, r.db).
		Preload("Issue").
		Joins("JOIN issues ON issues.id = issue_lines.issue_id").
		Where("issue_lines.item_id = ?", itemID)

	if start != nil {
		query = query.Where("issues.issue_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("issues.issue_date <= ?", *end)
	}

	err := query.Find(&lines).Error
	return lines, err
}

func (r *issueLineRepository) CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&entity.IssueLine{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	return count, err
}
