package entity

import (
	domain "crypto_backend/internal/domain/entity"
	"errors"
	"fmt"
)

// ErrNoPosition is returned when an action needs an active position and there is none.
var ErrNoPosition = errors.New("no active position found")

// ValidationError reports a missing or malformed action parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid creates a ValidationError.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Result is the outcome of one dispatched action. Which payload fields are set
// depends on the action; move_* fills both Canceled and Order.
type Result struct {
	Kind        ActionKind          `json:"action"`
	Symbol      string              `json:"symbol"`
	Order       *domain.Order       `json:"order,omitempty"`
	Canceled    []domain.Order      `json:"canceled,omitempty"`
	Leverage    *domain.Leverage    `json:"leverage,omitempty"`
	Batch       *domain.BatchResult `json:"batch,omitempty"`
	Position    *domain.Position    `json:"position,omitempty"`
	AllCanceled bool                `json:"allCanceled,omitempty"`
}
