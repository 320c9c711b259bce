package apperror

import (
	"errors"
	"net/http"
)

// Error kinds returned by the ledger engine. Callers must surface these
// verbatim; the HTTP layer maps them to status codes but never rewrites them.
const (
	KindNotFound          = "NotFound"
	KindInvalidInput      = "InvalidInput"
	KindPriceMismatch     = "PriceMismatch"
	KindOutOfStock        = "OutOfStock"
	KindDebtLimitExceeded = "DebtLimitExceeded"
	KindAmountExceedsDebt = "AmountExceedsDebt"
	KindInvalidTransition = "InvalidTransition"
	KindConflict          = "Conflict"
)

// AppError represents an application error with HTTP status code,
// a machine-readable kind, and optional context fields for the caller.
type AppError struct {
	Code    int                    `json:"-"`
	Kind    string                 `json:"kind"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Kind: "Unauthorized", Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Kind: "Forbidden", Message: "Forbidden"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Kind: "Internal", Message: "Internal server error"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Kind: "Unauthorized", Message: "Invalid email or password"}
)

// NewAppError creates a new application error
func NewAppError(code int, kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// WithContext attaches a context field to the error and returns it
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewNotFoundError creates a not found error for a missing resource
func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, KindNotFound, resource+" not found")
}

// NewInvalidInputError creates a validation error for a specific field
func NewInvalidInputError(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, KindInvalidInput, message)
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return NewAppError(http.StatusConflict, KindConflict, message)
}

// NewInvalidTransitionError reports an illegal state-machine move
func NewInvalidTransitionError(resource, from, to string) *AppError {
	e := NewAppError(http.StatusConflict, KindInvalidTransition,
		resource+" cannot transition from "+from+" to "+to)
	return e.WithContext("current_status", from).WithContext("target_status", to)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    "Internal",
		Message: err.Error(),
	}
}
