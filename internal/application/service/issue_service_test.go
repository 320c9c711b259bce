package service

import (
	"context"
	"testing"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/internal/domain/enum"
	"github.com/agms/backoffice-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type issueEnv struct {
	svc        *IssueService
	itemRepo   *fakeItemRepo
	agencyRepo *fakeAgencyRepo
	issueRepo  *fakeIssueRepo
	agency     *entity.Agency
	item       *entity.Item
	userID     uuid.UUID
}

func newIssueEnv(t *testing.T, stock int, maxDebt int64) *issueEnv {
	t.Helper()

	itemRepo := newFakeItemRepo()
	agencyRepo := newFakeAgencyRepo()
	lineRepo := newFakeIssueLineRepo()
	issueRepo := newFakeIssueRepo(lineRepo)
	lineRepo.issues = issueRepo

	agencyType := &entity.AgencyType{ID: uuid.New(), Name: "Level 1", MaxDebt: decimal.NewFromInt(maxDebt)}
	agency := &entity.Agency{
		ID:           uuid.New(),
		AgencyTypeID: agencyType.ID,
		AgencyType:   agencyType,
		Name:         "North Agency",
		DebtAmount:   decimal.Zero,
	}
	agencyRepo.add(agency)

	item := &entity.Item{
		ID:            uuid.New(),
		Name:          "Rice 5kg",
		Unit:          "bag",
		BasePrice:     decimal.NewFromInt(100),
		StockQuantity: stock,
	}
	itemRepo.add(item)

	return &issueEnv{
		svc:        NewIssueService(fakeTxManager{}, issueRepo, lineRepo, itemRepo, agencyRepo),
		itemRepo:   itemRepo,
		agencyRepo: agencyRepo,
		issueRepo:  issueRepo,
		agency:     agency,
		item:       item,
		userID:     uuid.New(),
	}
}

// markupPrice is base 100 at the mandatory 102% markup
var markupPrice = decimal.RequireFromString("102.00")

func (e *issueEnv) createIssue(t *testing.T, quantity int) *entity.Issue {
	t.Helper()
	issue, err := e.svc.CreateIssue(context.Background(), &CreateIssueInput{
		UserID:   e.userID,
		AgencyID: e.agency.ID,
		Lines: []IssueLineInput{
			{ItemID: e.item.ID, Quantity: quantity, UnitPrice: markupPrice},
		},
	})
	require.NoError(t, err)
	return issue
}

func TestCreateIssue_StartsProcessingWithoutTouchingStockOrDebt(t *testing.T) {
	env := newIssueEnv(t, 0, 10000)

	// Stock is zero but creation must still succeed: availability is only
	// checked at approval time
	issue := env.createIssue(t, 5)

	assert.Equal(t, enum.IssueStatusProcessing, issue.Status)
	assert.True(t, issue.TotalAmount.Equal(decimal.RequireFromString("510.00")))
	require.Len(t, issue.Lines, 1)
	assert.True(t, issue.Lines[0].LineTotal.Equal(decimal.RequireFromString("510.00")))

	item, _ := env.itemRepo.GetByID(context.Background(), env.item.ID)
	assert.Equal(t, 0, item.StockQuantity)
	agency, _ := env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.IsZero())
}

func TestCreateIssue_RejectsPriceOffMarkup(t *testing.T) {
	env := newIssueEnv(t, 10, 10000)

	_, err := env.svc.CreateIssue(context.Background(), &CreateIssueInput{
		UserID:   env.userID,
		AgencyID: env.agency.ID,
		Lines: []IssueLineInput{
			{ItemID: env.item.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindPriceMismatch))
}

func TestCreateIssue_AcceptsPriceWithinTolerance(t *testing.T) {
	env := newIssueEnv(t, 10, 10000)

	issue, err := env.svc.CreateIssue(context.Background(), &CreateIssueInput{
		UserID:   env.userID,
		AgencyID: env.agency.ID,
		Lines: []IssueLineInput{
			{ItemID: env.item.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("102.01")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, enum.IssueStatusProcessing, issue.Status)
}

func TestCreateIssue_RejectsWhenTotalWouldExceedDebtLimit(t *testing.T) {
	env := newIssueEnv(t, 100, 500)

	_, err := env.svc.CreateIssue(context.Background(), &CreateIssueInput{
		UserID:   env.userID,
		AgencyID: env.agency.ID,
		Lines: []IssueLineInput{
			{ItemID: env.item.ID, Quantity: 5, UnitPrice: markupPrice}, // 510 > 500
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindDebtLimitExceeded))
}

func TestCreateIssue_RejectsEmptyAndNonPositiveLines(t *testing.T) {
	env := newIssueEnv(t, 10, 10000)

	_, err := env.svc.CreateIssue(context.Background(), &CreateIssueInput{
		UserID:   env.userID,
		AgencyID: env.agency.ID,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))

	_, err = env.svc.CreateIssue(context.Background(), &CreateIssueInput{
		UserID:   env.userID,
		AgencyID: env.agency.ID,
		Lines: []IssueLineInput{
			{ItemID: env.item.ID, Quantity: 0, UnitPrice: markupPrice},
		},
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}

func TestApproveIssue_AppliesStockAndDebtOnce(t *testing.T) {
	env := newIssueEnv(t, 10, 10000)
	issue := env.createIssue(t, 4)

	approved, err := env.svc.ApproveIssue(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.IssueStatusConfirmed, approved.Status)

	item, _ := env.itemRepo.GetByID(context.Background(), env.item.ID)
	assert.Equal(t, 6, item.StockQuantity)
	agency, _ := env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.Equal(decimal.RequireFromString("408.00")))

	// A second approval must fail and leave stock and debt untouched
	_, err = env.svc.ApproveIssue(context.Background(), issue.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))

	item, _ = env.itemRepo.GetByID(context.Background(), env.item.ID)
	assert.Equal(t, 6, item.StockQuantity)
	agency, _ = env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.Equal(decimal.RequireFromString("408.00")))
}

func TestApproveIssue_InsufficientStockLeavesNoPartialEffects(t *testing.T) {
	env := newIssueEnv(t, 3, 10000)
	issue := env.createIssue(t, 4)

	_, err := env.svc.ApproveIssue(context.Background(), issue.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindOutOfStock))

	item, _ := env.itemRepo.GetByID(context.Background(), env.item.ID)
	assert.Equal(t, 3, item.StockQuantity)
	agency, _ := env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.IsZero())

	stored, _ := env.issueRepo.GetByID(context.Background(), issue.ID)
	assert.Equal(t, enum.IssueStatusProcessing, stored.Status)
}

func TestApproveIssue_SequentialApprovalsConsumeSharedStock(t *testing.T) {
	env := newIssueEnv(t, 10, 100000)
	first := env.createIssue(t, 6)
	second := env.createIssue(t, 6)

	_, err := env.svc.ApproveIssue(context.Background(), first.ID)
	require.NoError(t, err)

	// Only 4 units remain; the second approval must fail cleanly
	_, err = env.svc.ApproveIssue(context.Background(), second.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindOutOfStock))

	item, _ := env.itemRepo.GetByID(context.Background(), env.item.ID)
	assert.Equal(t, 4, item.StockQuantity)
}

func TestApproveIssue_RechecksDebtAgainstCurrentBalance(t *testing.T) {
	env := newIssueEnv(t, 100, 800)
	first := env.createIssue(t, 5)  // 510
	second := env.createIssue(t, 5) // 510; fits at creation, not after the first confirms

	_, err := env.svc.ApproveIssue(context.Background(), first.ID)
	require.NoError(t, err)

	_, err = env.svc.ApproveIssue(context.Background(), second.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindDebtLimitExceeded))

	agency, _ := env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.Equal(decimal.RequireFromString("510.00")))
}

func TestApproveIssue_AggregatesRepeatedItemLines(t *testing.T) {
	env := newIssueEnv(t, 5, 10000)

	issue, err := env.svc.CreateIssue(context.Background(), &CreateIssueInput{
		UserID:   env.userID,
		AgencyID: env.agency.ID,
		Lines: []IssueLineInput{
			{ItemID: env.item.ID, Quantity: 3, UnitPrice: markupPrice},
			{ItemID: env.item.ID, Quantity: 3, UnitPrice: markupPrice},
		},
	})
	require.NoError(t, err)

	// 3 + 3 across two lines exceeds the 5 in stock
	_, err = env.svc.ApproveIssue(context.Background(), issue.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindOutOfStock))
}

func TestRejectIssue_CancelsWithReason(t *testing.T) {
	env := newIssueEnv(t, 10, 10000)
	issue := env.createIssue(t, 2)

	rejected, err := env.svc.RejectIssue(context.Background(), issue.ID, "agency closed")
	require.NoError(t, err)
	assert.Equal(t, enum.IssueStatusCancelled, rejected.Status)
	require.NotNil(t, rejected.StatusReason)
	assert.Equal(t, "agency closed", *rejected.StatusReason)

	item, _ := env.itemRepo.GetByID(context.Background(), env.item.ID)
	assert.Equal(t, 10, item.StockQuantity)

	// Cancelled is terminal
	_, err = env.svc.ApproveIssue(context.Background(), issue.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))
}

func TestMarkDelivered_OnlyFromConfirmed(t *testing.T) {
	env := newIssueEnv(t, 10, 10000)
	issue := env.createIssue(t, 2)

	_, err := env.svc.MarkDelivered(context.Background(), issue.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidTransition))

	_, err = env.svc.ApproveIssue(context.Background(), issue.ID)
	require.NoError(t, err)

	delivered, err := env.svc.MarkDelivered(context.Background(), issue.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.IssueStatusDelivered, delivered.Status)

	// Delivery is a pure marker: stock and debt unchanged from confirmation
	item, _ := env.itemRepo.GetByID(context.Background(), env.item.ID)
	assert.Equal(t, 8, item.StockQuantity)
	agency, _ := env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.Equal(decimal.RequireFromString("204.00")))
}

func TestApproveIssue_NotFound(t *testing.T) {
	env := newIssueEnv(t, 10, 10000)

	_, err := env.svc.ApproveIssue(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
