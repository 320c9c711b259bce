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

// PaymentService handles debt collections. A payment is recorded pending and
// reduces the agency's debt only when settled as completed.
type PaymentService struct {
	txManager   repository.TxManager
	paymentRepo repository.PaymentRepository
	agencyRepo  repository.AgencyRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	txManager repository.TxManager,
	paymentRepo repository.PaymentRepository,
	agencyRepo repository.AgencyRepository,
) *PaymentService {
	return &PaymentService{
		txManager:   txManager,
		paymentRepo: paymentRepo,
		agencyRepo:  agencyRepo,
	}
}

// CreatePaymentInput represents the create payment input
type CreatePaymentInput struct {
	UserID          uuid.UUID
	AgencyID        uuid.UUID
	PaymentDate     time.Time
	AmountCollected decimal.Decimal
}

// CreatePayment records a pending payment. The amount is validated for shape
// only; the amount-vs-debt check runs at settlement time against the debt
// balance current at that moment.
func (s *PaymentService) CreatePayment(ctx context.Context, input *CreatePaymentInput) (*entity.Payment, error) {
	if !input.AmountCollected.IsPositive() {
		return nil, apperror.NewInvalidInputError("Payment amount must be positive")
	}

	agency, err := s.agencyRepo.GetByID(ctx, input.AgencyID)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, apperror.NewNotFoundError("Agency")
	}

	paymentDate := input.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	payment := &entity.Payment{
		PaymentNo:       fmt.Sprintf("PAY-%s", uuid.New().String()[:8]),
		AgencyID:        input.AgencyID,
		UserID:          input.UserID,
		PaymentDate:     paymentDate,
		AmountCollected: input.AmountCollected,
		Status:          enum.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return s.paymentRepo.GetByID(ctx, payment.ID)
}

// SettlePaymentInput represents the settle payment input
type SettlePaymentInput struct {
	Status enum.PaymentStatus
	Reason *string
}

// SettlePayment resolves a pending payment as completed or failed. Completing
// reduces the agency's debt by the collected amount, after checking under the
// agency lock that the amount does not exceed the current debt. Terminal
// payments are immutable: re-settling with the same status only updates the
// reason note; any other status change is a conflict.
func (s *PaymentService) SettlePayment(ctx context.Context, paymentID uuid.UUID, input *SettlePaymentInput) (*entity.Payment, error) {
	if input.Status == enum.PaymentStatusPending {
		return nil, apperror.NewInvalidInputError("Settlement status must be completed or failed")
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Payment")
		}

		if payment.Status.IsTerminal() {
			if payment.Status == input.Status {
				// Same-status resettle is a no-op on the balance; only the
				// reason note may change
				if input.Reason != nil {
					payment.StatusReason = input.Reason
					return s.paymentRepo.Update(ctx, payment)
				}
				return nil
			}
			return apperror.NewConflictError(fmt.Sprintf(
				"Payment is already %s and cannot become %s",
				payment.Status.String(), input.Status.String()))
		}

		if !payment.Status.CanTransitionTo(input.Status) {
			return apperror.NewInvalidTransitionError("Payment",
				payment.Status.String(), input.Status.String())
		}

		if input.Status == enum.PaymentStatusCompleted {
			agency, err := s.agencyRepo.GetByIDForUpdate(ctx, payment.AgencyID)
			if err != nil {
				return err
			}
			if agency == nil {
				return apperror.NewNotFoundError("Agency")
			}
			if err := pricing.CheckPaymentAmount(agency, payment.AmountCollected); err != nil {
				return err
			}
			if err := s.agencyRepo.AdjustDebt(ctx, payment.AgencyID, payment.AmountCollected.Neg()); err != nil {
				return err
			}
		}

		payment.Status = input.Status
		payment.StatusReason = input.Reason
		return s.paymentRepo.Update(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	return s.paymentRepo.GetByID(ctx, paymentID)
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListPayments lists payments with filtering
func (s *PaymentService) ListPayments(ctx context.Context, params *repository.PaymentFilterParams) (*pagination.PaginatedResult[entity.Payment], error) {
	payments, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(payments, pag), nil
}
