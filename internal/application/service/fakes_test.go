package service

import (
	"context"
	"sort"
	"time"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/internal/domain/enum"
	"github.com/agms/backoffice-api/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repository fakes. Services validate before mutating inside a
// transaction, so the fake transaction manager just runs the function.

type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeItemRepo struct {
	items map[uuid.UUID]*entity.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*entity.Item)}
}

func (r *fakeItemRepo) add(item *entity.Item) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
}

func (r *fakeItemRepo) Create(ctx context.Context, item *entity.Item) error {
	r.add(item)
	return nil
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error) {
	var out []entity.Item
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) GetByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]entity.Item, error) {
	items, err := r.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ID.String() < items[j].ID.String()
	})
	return items, nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *entity.Item) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepo) List(ctx context.Context, params *repository.ItemFilterParams) ([]entity.Item, int64, error) {
	var out []entity.Item
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (r *fakeItemRepo) GetLowStock(ctx context.Context, threshold int) ([]entity.Item, error) {
	var out []entity.Item
	for _, item := range r.items {
		if item.StockQuantity < threshold {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	r.items[id].StockQuantity += delta
	return nil
}

type fakeAgencyRepo struct {
	agencies map[uuid.UUID]*entity.Agency
}

func newFakeAgencyRepo() *fakeAgencyRepo {
	return &fakeAgencyRepo{agencies: make(map[uuid.UUID]*entity.Agency)}
}

func (r *fakeAgencyRepo) add(agency *entity.Agency) {
	if agency.ID == uuid.Nil {
		agency.ID = uuid.New()
	}
	r.agencies[agency.ID] = agency
}

func (r *fakeAgencyRepo) Create(ctx context.Context, agency *entity.Agency) error {
	r.add(agency)
	return nil
}

func (r *fakeAgencyRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Agency, error) {
	agency, ok := r.agencies[id]
	if !ok {
		return nil, nil
	}
	copied := *agency
	return &copied, nil
}

func (r *fakeAgencyRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Agency, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAgencyRepo) Update(ctx context.Context, agency *entity.Agency) error {
	copied := *agency
	r.agencies[agency.ID] = &copied
	return nil
}

func (r *fakeAgencyRepo) List(ctx context.Context, params *repository.AgencyFilterParams) ([]entity.Agency, int64, error) {
	var out []entity.Agency
	for _, agency := range r.agencies {
		out = append(out, *agency)
	}
	return out, int64(len(out)), nil
}

func (r *fakeAgencyRepo) AdjustDebt(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	agency := r.agencies[id]
	agency.DebtAmount = agency.DebtAmount.Add(delta)
	return nil
}

type fakeAgencyTypeRepo struct {
	types map[uuid.UUID]*entity.AgencyType
}

func newFakeAgencyTypeRepo() *fakeAgencyTypeRepo {
	return &fakeAgencyTypeRepo{types: make(map[uuid.UUID]*entity.AgencyType)}
}

func (r *fakeAgencyTypeRepo) add(t *entity.AgencyType) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.types[t.ID] = t
}

func (r *fakeAgencyTypeRepo) Create(ctx context.Context, t *entity.AgencyType) error {
	r.add(t)
	return nil
}

func (r *fakeAgencyTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.AgencyType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *fakeAgencyTypeRepo) GetByName(ctx context.Context, name string) (*entity.AgencyType, error) {
	for _, t := range r.types {
		if t.Name == name {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeAgencyTypeRepo) List(ctx context.Context) ([]entity.AgencyType, error) {
	var out []entity.AgencyType
	for _, t := range r.types {
		out = append(out, *t)
	}
	return out, nil
}

type fakeReceiptRepo struct {
	receipts map[uuid.UUID]*entity.Receipt
	lines    *fakeReceiptLineRepo
}

func newFakeReceiptRepo(lines *fakeReceiptLineRepo) *fakeReceiptRepo {
	return &fakeReceiptRepo{receipts: make(map[uuid.UUID]*entity.Receipt), lines: lines}
}

func (r *fakeReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	copied := *receipt
	r.receipts[receipt.ID] = &copied
	return nil
}

func (r *fakeReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, ok := r.receipts[id]
	if !ok {
		return nil, nil
	}
	copied := *receipt
	return &copied, nil
}

func (r *fakeReceiptRepo) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := r.GetByID(ctx, id)
	if err != nil || receipt == nil {
		return receipt, err
	}
	receipt.Lines, _ = r.lines.GetByReceiptID(ctx, id)
	return receipt, nil
}

func (r *fakeReceiptRepo) List(ctx context.Context, params *repository.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var out []entity.Receipt
	for _, receipt := range r.receipts {
		out = append(out, *receipt)
	}
	return out, int64(len(out)), nil
}

type fakeReceiptLineRepo struct {
	lines []entity.ReceiptLine
	// parent dates/numbers for movement queries
	receipts *fakeReceiptRepo
}

func newFakeReceiptLineRepo() *fakeReceiptLineRepo {
	return &fakeReceiptLineRepo{}
}

func (r *fakeReceiptLineRepo) CreateBatch(ctx context.Context, lines []entity.ReceiptLine) error {
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
	}
	r.lines = append(r.lines, lines...)
	return nil
}

func (r *fakeReceiptLineRepo) GetByReceiptID(ctx context.Context, receiptID uuid.UUID) ([]entity.ReceiptLine, error) {
	var out []entity.ReceiptLine
	for _, line := range r.lines {
		if line.ReceiptID == receiptID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (r *fakeReceiptLineRepo) ListByItemID(ctx context.Context, itemID uuid.UUID, start, end *time.Time) ([]entity.ReceiptLine, error) {
	var out []entity.ReceiptLine
	for _, line := range r.lines {
		if line.ItemID != itemID {
			continue
		}
		if r.receipts != nil {
			if parent, ok := r.receipts.receipts[line.ReceiptID]; ok {
				line.Receipt = *parent
			}
		}
		if start != nil && line.Receipt.ReceiptDate.Before(*start) {
			continue
		}
		if end != nil && line.Receipt.ReceiptDate.After(*end) {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

func (r *fakeReceiptLineRepo) CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	for _, line := range r.lines {
		if line.ItemID == itemID {
			count++
		}
	}
	return count, nil
}

type fakeIssueRepo struct {
	issues map[uuid.UUID]*entity.Issue
	lines  *fakeIssueLineRepo
}

func newFakeIssueRepo(lines *fakeIssueLineRepo) *fakeIssueRepo {
	return &fakeIssueRepo{issues: make(map[uuid.UUID]*entity.Issue), lines: lines}
}

func (r *fakeIssueRepo) Create(ctx context.Context, issue *entity.Issue) error {
	if issue.ID == uuid.Nil {
		issue.ID = uuid.New()
	}
	copied := *issue
	r.issues[issue.ID] = &copied
	return nil
}

func (r *fakeIssueRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Issue, error) {
	issue, ok := r.issues[id]
	if !ok {
		return nil, nil
	}
	copied := *issue
	return &copied, nil
}

func (r *fakeIssueRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Issue, error) {
	return r.GetWithLines(ctx, id)
}

func (r *fakeIssueRepo) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Issue, error) {
	issue, err := r.GetByID(ctx, id)
	if err != nil || issue == nil {
		return issue, err
	}
	issue.Lines, _ = r.lines.GetByIssueID(ctx, id)
	return issue, nil
}

func (r *fakeIssueRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.IssueStatus, reason *string) error {
	issue := r.issues[id]
	issue.Status = status
	if reason != nil {
		issue.StatusReason = reason
	}
	return nil
}

func (r *fakeIssueRepo) List(ctx context.Context, params *repository.IssueFilterParams) ([]entity.Issue, int64, error) {
	var out []entity.Issue
	for _, issue := range r.issues {
		out = append(out, *issue)
	}
	return out, int64(len(out)), nil
}

type fakeIssueLineRepo struct {
	lines  []entity.IssueLine
	issues *fakeIssueRepo
}

func newFakeIssueLineRepo() *fakeIssueLineRepo {
	return &fakeIssueLineRepo{}
}

func (r *fakeIssueLineRepo) CreateBatch(ctx context.Context, lines []entity.IssueLine) error {
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
	}
	r.lines = append(r.lines, lines...)
	return nil
}

func (r *fakeIssueLineRepo) GetByIssueID(ctx context.Context, issueID uuid.UUID) ([]entity.IssueLine, error) {
	var out []entity.IssueLine
	for _, line := range r.lines {
		if line.IssueID == issueID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (r *fakeIssueLineRepo) ListByItemID(ctx context.Context, itemID uuid.UUID, start, end *time.Time) ([]entity.IssueLine, error) {
	var out []entity.IssueLine
	for _, line := range r.lines {
		if line.ItemID != itemID {
			continue
		}
		if r.issues != nil {
			if parent, ok := r.issues.issues[line.IssueID]; ok {
				line.Issue = *parent
			}
		}
		if start != nil && line.Issue.IssueDate.Before(*start) {
			continue
		}
		if end != nil && line.Issue.IssueDate.After(*end) {
			continue
		}
		out = append(out, line)
	}
	return out, nil
}

func (r *fakeIssueLineRepo) CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	for _, line := range r.lines {
		if line.ItemID == itemID {
			count++
		}
	}
	return count, nil
}

type fakePaymentRepo struct {
	payments map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*entity.Payment)}
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	copied := *payment
	r.payments[payment.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r *fakePaymentRepo) Update(ctx context.Context, payment *entity.Payment) error {
	copied := *payment
	r.payments[payment.ID] = &copied
	return nil
}

func (r *fakePaymentRepo) List(ctx context.Context, params *repository.PaymentFilterParams) ([]entity.Payment, int64, error) {
	var out []entity.Payment
	for _, payment := range r.payments {
		out = append(out, *payment)
	}
	return out, int64(len(out)), nil
}
