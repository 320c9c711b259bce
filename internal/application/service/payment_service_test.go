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

type paymentEnv struct {
	svc        *PaymentService
	agencyRepo *fakeAgencyRepo
	agency     *entity.Agency
	userID     uuid.UUID
}

func newPaymentEnv(t *testing.T, debt int64) *paymentEnv {
	t.Helper()

	agencyRepo := newFakeAgencyRepo()
	paymentRepo := newFakePaymentRepo()

	agencyType := &entity.AgencyType{ID: uuid.New(), Name: "Level 1", MaxDebt: decimal.NewFromInt(100000)}
	agency := &entity.Agency{
		ID:           uuid.New(),
		AgencyTypeID: agencyType.ID,
		AgencyType:   agencyType,
		Name:         "South Agency",
		DebtAmount:   decimal.NewFromInt(debt),
	}
	agencyRepo.add(agency)

	return &paymentEnv{
		svc:        NewPaymentService(fakeTxManager{}, paymentRepo, agencyRepo),
		agencyRepo: agencyRepo,
		agency:     agency,
		userID:     uuid.New(),
	}
}

func (e *paymentEnv) createPayment(t *testing.T, amount int64) *entity.Payment {
	t.Helper()
	payment, err := e.svc.CreatePayment(context.Background(), &CreatePaymentInput{
		UserID:          e.userID,
		AgencyID:        e.agency.ID,
		AmountCollected: decimal.NewFromInt(amount),
	})
	require.NoError(t, err)
	return payment
}

func strPtr(s string) *string { return &s }

func TestCreatePayment_StartsPendingWithoutTouchingDebt(t *testing.T) {
	env := newPaymentEnv(t, 1000)

	payment := env.createPayment(t, 400)
	assert.Equal(t, enum.PaymentStatusPending, payment.Status)

	agency, _ := env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.Equal(decimal.NewFromInt(1000)))
}

func TestCreatePayment_RejectsNonPositiveAmount(t *testing.T) {
	env := newPaymentEnv(t, 1000)

	_, err := env.svc.CreatePayment(context.Background(), &CreatePaymentInput{
		UserID:          env.userID,
		AgencyID:        env.agency.ID,
		AmountCollected: decimal.Zero,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}

func TestSettlePayment_CompletedReducesDebt(t *testing.T) {
	env := newPaymentEnv(t, 1000)
	payment := env.createPayment(t, 400)

	settled, err := env.svc.SettlePayment(context.Background(), payment.ID, &SettlePaymentInput{
		Status: enum.PaymentStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusCompleted, settled.Status)

	agency, _ := env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.Equal(decimal.NewFromInt(600)))
}

func TestSettlePayment_AmountExceedingDebtIsRejected(t *testing.T) {
	env := newPaymentEnv(t, 300)
	payment := env.createPayment(t, 400)

	_, err := env.svc.SettlePayment(context.Background(), payment.ID, &SettlePaymentInput{
		Status: enum.PaymentStatusCompleted,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAmountExceedsDebt))

	// Debt and payment status unchanged
	agency, _ := env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.Equal(decimal.NewFromInt(300)))
	stored, err := env.svc.GetPayment(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusPending, stored.Status)
}

func TestSettlePayment_ChecksDebtCurrentAtSettlementTime(t *testing.T) {
	env := newPaymentEnv(t, 1000)
	first := env.createPayment(t, 600)
	second := env.createPayment(t, 600)

	_, err := env.svc.SettlePayment(context.Background(), first.ID, &SettlePaymentInput{
		Status: enum.PaymentStatusCompleted,
	})
	require.NoError(t, err)

	// Only 400 of debt remains; the second 600 no longer fits
	_, err = env.svc.SettlePayment(context.Background(), second.ID, &SettlePaymentInput{
		Status: enum.PaymentStatusCompleted,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAmountExceedsDebt))
}

func TestSettlePayment_FailedLeavesDebtUntouched(t *testing.T) {
	env := newPaymentEnv(t, 1000)
	payment := env.createPayment(t, 400)

	settled, err := env.svc.SettlePayment(context.Background(), payment.ID, &SettlePaymentInput{
		Status: enum.PaymentStatusFailed,
		Reason: strPtr("cheque bounced"),
	})
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusFailed, settled.Status)
	require.NotNil(t, settled.StatusReason)
	assert.Equal(t, "cheque bounced", *settled.StatusReason)

	agency, _ := env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.Equal(decimal.NewFromInt(1000)))
}

func TestSettlePayment_SameTerminalStatusIsNoOpOnDebt(t *testing.T) {
	env := newPaymentEnv(t, 1000)
	payment := env.createPayment(t, 400)

	_, err := env.svc.SettlePayment(context.Background(), payment.ID, &SettlePaymentInput{
		Status: enum.PaymentStatusCompleted,
	})
	require.NoError(t, err)

	// Re-settling completed as completed only updates the reason note
	settled, err := env.svc.SettlePayment(context.Background(), payment.ID, &SettlePaymentInput{
		Status: enum.PaymentStatusCompleted,
		Reason: strPtr("confirmed by accountant"),
	})
	require.NoError(t, err)
	assert.Equal(t, enum.PaymentStatusCompleted, settled.Status)
	require.NotNil(t, settled.StatusReason)
	assert.Equal(t, "confirmed by accountant", *settled.StatusReason)

	agency, _ := env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.Equal(decimal.NewFromInt(600)))
}

func TestSettlePayment_TerminalStatusCannotChange(t *testing.T) {
	env := newPaymentEnv(t, 1000)
	payment := env.createPayment(t, 400)

	_, err := env.svc.SettlePayment(context.Background(), payment.ID, &SettlePaymentInput{
		Status: enum.PaymentStatusCompleted,
	})
	require.NoError(t, err)

	_, err = env.svc.SettlePayment(context.Background(), payment.ID, &SettlePaymentInput{
		Status: enum.PaymentStatusFailed,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	agency, _ := env.agencyRepo.GetByID(context.Background(), env.agency.ID)
	assert.True(t, agency.DebtAmount.Equal(decimal.NewFromInt(600)))
}

func TestSettlePayment_RejectsPendingTarget(t *testing.T) {
	env := newPaymentEnv(t, 1000)
	payment := env.createPayment(t, 400)

	_, err := env.svc.SettlePayment(context.Background(), payment.ID, &SettlePaymentInput{
		Status: enum.PaymentStatusPending,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}
