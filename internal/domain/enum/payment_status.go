package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentStatus represents the status of a debt payment
type PaymentStatus int

const (
	PaymentStatusPending   PaymentStatus = 0
	PaymentStatusCompleted PaymentStatus = 1
	PaymentStatusFailed    PaymentStatus = 2
)

func (s PaymentStatus) String() string {
	return [...]string{"pending", "completed", "failed"}[s]
}

// paymentTransitions is the single source of truth for legal status moves.
// Once completed or failed, the status field is immutable.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted: {},
	PaymentStatusFailed:    {},
}

// CanTransitionTo reports whether the move from s to next is legal
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status can no longer change
func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0
}

// ParsePaymentStatus converts a wire value into a PaymentStatus
func ParsePaymentStatus(str string) (PaymentStatus, bool) {
	switch str {
	case "pending":
		return PaymentStatusPending, true
	case "completed":
		return PaymentStatusCompleted, true
	case "failed":
		return PaymentStatusFailed, true
	}
	return PaymentStatusPending, false
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	if parsed, ok := ParsePaymentStatus(str); ok {
		*s = parsed
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}
