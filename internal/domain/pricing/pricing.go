// Package pricing holds the pure business rules shared by the receipt,
// issue, and payment engines: markup pricing, line totals, and the
// stock/debt feasibility checks. Nothing here touches the database.
package pricing

import (
	"fmt"
	"net/http"

	"github.com/agms/backoffice-api/internal/domain/entity"
	"github.com/agms/backoffice-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	// Markup is the mandatory multiplier from an item's base price to its
	// issue unit price: issues go out at 102% of the purchase price.
	Markup = decimal.NewFromFloat(1.02)

	// PriceTolerance is the maximum accepted deviation between a submitted
	// issue unit price and the expected markup price.
	PriceTolerance = decimal.NewFromFloat(0.01)
)

// ExpectedIssuePrice returns base_price × Markup rounded half-up to 2 decimals
func ExpectedIssuePrice(basePrice decimal.Decimal) decimal.Decimal {
	return basePrice.Mul(Markup).Round(2)
}

// LineTotal returns quantity × unit_price rounded half-up to 2 decimals.
// Client-supplied line totals are never trusted; this is the only way a
// line total is ever computed.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// ValidateIssuePrice rejects an issue unit price that deviates from the
// markup price by more than the tolerance
func ValidateIssuePrice(item *entity.Item, unitPrice decimal.Decimal) error {
	expected := ExpectedIssuePrice(item.BasePrice)
	if unitPrice.Sub(expected).Abs().GreaterThan(PriceTolerance) {
		e := apperror.NewAppError(http.StatusUnprocessableEntity, apperror.KindPriceMismatch,
			fmt.Sprintf("Issue price for %s must be 102%% of the base price: expected %s, got %s",
				item.Name, expected.StringFixed(2), unitPrice.StringFixed(2)))
		return e.WithContext("item_name", item.Name).
			WithContext("expected_price", expected.StringFixed(2)).
			WithContext("unit_price", unitPrice.StringFixed(2))
	}
	return nil
}

// CheckStock verifies the item can cover the requested quantity
func CheckStock(item *entity.Item, quantity int) error {
	if item.StockQuantity < quantity {
		e := apperror.NewAppError(http.StatusConflict, apperror.KindOutOfStock,
			fmt.Sprintf("Insufficient stock for %s: requested %d, available %d",
				item.Name, quantity, item.StockQuantity))
		return e.WithContext("item_name", item.Name).
			WithContext("requested", quantity).
			WithContext("available", item.StockQuantity)
	}
	return nil
}

// CheckDebtCapacity verifies that adding increment to the agency's debt
// stays within its type-derived limit. Requires AgencyType preloaded.
func CheckDebtCapacity(agency *entity.Agency, increment decimal.Decimal) error {
	limit := agency.DebtLimit()
	newDebt := agency.DebtAmount.Add(increment)
	if newDebt.GreaterThan(limit) {
		e := apperror.NewAppError(http.StatusConflict, apperror.KindDebtLimitExceeded,
			fmt.Sprintf("Confirming this issue would exceed the debt limit for %s: current %s, limit %s, increment %s",
				agency.Name, agency.DebtAmount.StringFixed(2), limit.StringFixed(2), increment.StringFixed(2)))
		return e.WithContext("current_debt", agency.DebtAmount.StringFixed(2)).
			WithContext("max_debt", limit.StringFixed(2)).
			WithContext("additional_amount", increment.StringFixed(2))
	}
	return nil
}

// CheckPaymentAmount verifies a payment does not exceed the agency's
// current debt at settlement time
func CheckPaymentAmount(agency *entity.Agency, amount decimal.Decimal) error {
	if amount.GreaterThan(agency.DebtAmount) {
		e := apperror.NewAppError(http.StatusConflict, apperror.KindAmountExceedsDebt,
			fmt.Sprintf("Payment amount %s cannot exceed the current debt %s of %s",
				amount.StringFixed(2), agency.DebtAmount.StringFixed(2), agency.Name))
		return e.WithContext("requested_amount", amount.StringFixed(2)).
			WithContext("current_debt", agency.DebtAmount.StringFixed(2))
	}
	return nil
}
