package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// IssueStatus represents the status of a stock-out issue
type IssueStatus int

const (
	IssueStatusProcessing IssueStatus = 0
	IssueStatusConfirmed  IssueStatus = 1
	IssueStatusDelivered  IssueStatus = 2
	IssueStatusCancelled  IssueStatus = 3
)

func (s IssueStatus) String() string {
	return [...]string{"processing", "confirmed", "delivered", "cancelled"}[s]
}

// issueTransitions is the single source of truth for legal status moves.
// Stock and debt effects are applied exactly once, on processing→confirmed.
var issueTransitions = map[IssueStatus][]IssueStatus{
	IssueStatusProcessing: {IssueStatusConfirmed, IssueStatusCancelled},
	IssueStatusConfirmed:  {IssueStatusDelivered},
	IssueStatusDelivered:  {},
	IssueStatusCancelled:  {},
}

// CanTransitionTo reports whether the move from s to next is legal
func (s IssueStatus) CanTransitionTo(next IssueStatus) bool {
	for _, allowed := range issueTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s IssueStatus) IsTerminal() bool {
	return len(issueTransitions[s]) == 0
}

// ParseIssueStatus converts a wire value into an IssueStatus
func ParseIssueStatus(str string) (IssueStatus, bool) {
	switch str {
	case "processing":
		return IssueStatusProcessing, true
	case "confirmed":
		return IssueStatusConfirmed, true
	case "delivered":
		return IssueStatusDelivered, true
	case "cancelled":
		return IssueStatusCancelled, true
	}
	return IssueStatusProcessing, false
}

func (s IssueStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *IssueStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = IssueStatus(i)
		return nil
	}
	if parsed, ok := ParseIssueStatus(str); ok {
		*s = parsed
	}
	return nil
}

func (s IssueStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *IssueStatus) Scan(value interface{}) error {
	if value == nil {
		*s = IssueStatusProcessing
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = IssueStatus(v)
	case int:
		*s = IssueStatus(v)
	}
	return nil
}
