package service

import (
	"context"
	"testing"
	"time"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/internal/domain/enum"
	"github.com/agms/backoffice-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemEnv struct {
	svc             *ItemService
	itemRepo        *fakeItemRepo
	receiptRepo     *fakeReceiptRepo
	receiptLineRepo *fakeReceiptLineRepo
	issueRepo       *fakeIssueRepo
	issueLineRepo   *fakeIssueLineRepo
	item            *entity.Item
}

func newItemEnv(t *testing.T) *itemEnv {
	t.Helper()

	itemRepo := newFakeItemRepo()
	receiptLineRepo := newFakeReceiptLineRepo()
	receiptRepo := newFakeReceiptRepo(receiptLineRepo)
	receiptLineRepo.receipts = receiptRepo
	issueLineRepo := newFakeIssueLineRepo()
	issueRepo := newFakeIssueRepo(issueLineRepo)
	issueLineRepo.issues = issueRepo

	item := &entity.Item{
		ID:            uuid.New(),
		Name:          "Sugar 1kg",
		Unit:          "pack",
		BasePrice:     decimal.NewFromInt(20),
		StockQuantity: 30,
	}
	itemRepo.add(item)

	return &itemEnv{
		svc:             NewItemService(itemRepo, receiptLineRepo, issueLineRepo),
		itemRepo:        itemRepo,
		receiptRepo:     receiptRepo,
		receiptLineRepo: receiptLineRepo,
		issueRepo:       issueRepo,
		issueLineRepo:   issueLineRepo,
		item:            item,
	}
}

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func (e *itemEnv) addReceiptMovement(t *testing.T, day string, qty int) {
	t.Helper()
	receipt := &entity.Receipt{ReceiptNo: "RCP-" + day, ReceiptDate: date(day)}
	require.NoError(t, e.receiptRepo.Create(context.Background(), receipt))
	require.NoError(t, e.receiptLineRepo.CreateBatch(context.Background(), []entity.ReceiptLine{
		{ReceiptID: receipt.ID, ItemID: e.item.ID, Quantity: qty,
			UnitPrice: decimal.NewFromInt(20), LineTotal: decimal.NewFromInt(int64(qty * 20))},
	}))
}

func (e *itemEnv) addIssueMovement(t *testing.T, day string, qty int, status enum.IssueStatus) {
	t.Helper()
	issue := &entity.Issue{IssueNo: "ISS-" + day, IssueDate: date(day), Status: status}
	require.NoError(t, e.issueRepo.Create(context.Background(), issue))
	require.NoError(t, e.issueLineRepo.CreateBatch(context.Background(), []entity.IssueLine{
		{IssueID: issue.ID, ItemID: e.item.ID, Quantity: qty,
			UnitPrice: decimal.RequireFromString("20.40"), LineTotal: decimal.RequireFromString("20.40").Mul(decimal.NewFromInt(int64(qty)))},
	}))
}

func TestGetItemMovements_MergesSortedAndSkipsNonEffectiveIssues(t *testing.T) {
	env := newItemEnv(t)

	env.addReceiptMovement(t, "2026-01-10", 50)
	env.addIssueMovement(t, "2026-01-12", 10, enum.IssueStatusConfirmed)
	env.addIssueMovement(t, "2026-01-14", 5, enum.IssueStatusProcessing) // never touched stock
	env.addIssueMovement(t, "2026-01-15", 8, enum.IssueStatusCancelled)  // never touched stock
	env.addIssueMovement(t, "2026-01-20", 7, enum.IssueStatusDelivered)
	env.addReceiptMovement(t, "2026-01-25", 20)

	movements, err := env.svc.GetItemMovements(context.Background(), env.item.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, movements, 4)

	assert.Equal(t, "receipt", movements[0].Type)
	assert.Equal(t, 50, movements[0].Quantity)
	assert.Equal(t, "issue", movements[1].Type)
	assert.Equal(t, -10, movements[1].Quantity)
	assert.Equal(t, -7, movements[2].Quantity)
	assert.Equal(t, 20, movements[3].Quantity)

	// Sorted ascending by document date
	for i := 1; i < len(movements); i++ {
		assert.False(t, movements[i].Date.Before(movements[i-1].Date))
	}
}

func TestGetItemMovements_DateRangeFilter(t *testing.T) {
	env := newItemEnv(t)

	env.addReceiptMovement(t, "2026-01-10", 50)
	env.addIssueMovement(t, "2026-02-12", 10, enum.IssueStatusConfirmed)
	env.addReceiptMovement(t, "2026-03-25", 20)

	start := date("2026-02-01")
	end := date("2026-02-28")
	movements, err := env.svc.GetItemMovements(context.Background(), env.item.ID, &start, &end)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, -10, movements[0].Quantity)
}

func TestDeleteItem_BlockedByMovementHistory(t *testing.T) {
	env := newItemEnv(t)
	env.addReceiptMovement(t, "2026-01-10", 50)

	err := env.svc.DeleteItem(context.Background(), env.item.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	item, _ := env.itemRepo.GetByID(context.Background(), env.item.ID)
	assert.NotNil(t, item)
}

func TestDeleteItem_AllowedWithoutHistory(t *testing.T) {
	env := newItemEnv(t)

	err := env.svc.DeleteItem(context.Background(), env.item.ID)
	require.NoError(t, err)

	item, _ := env.itemRepo.GetByID(context.Background(), env.item.ID)
	assert.Nil(t, item)
}

func TestCreateItem_Validation(t *testing.T) {
	env := newItemEnv(t)

	_, err := env.svc.CreateItem(context.Background(), &CreateItemInput{
		Name: "", BasePrice: decimal.NewFromInt(10),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))

	_, err = env.svc.CreateItem(context.Background(), &CreateItemInput{
		Name: "Salt", BasePrice: decimal.Zero,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))

	item, err := env.svc.CreateItem(context.Background(), &CreateItemInput{
		Name: "Salt", Unit: "pack", BasePrice: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, item.StockQuantity)
}

func TestExpectedIssuePrice(t *testing.T) {
	env := newItemEnv(t)

	price, err := env.svc.ExpectedIssuePrice(context.Background(), env.item.ID)
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("20.40")))
}
