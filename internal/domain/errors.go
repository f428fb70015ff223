package domain

import (
	"fmt"
	"strings"
)

// ValidationKind classifies why an input set was rejected.
type ValidationKind string

const (
	MissingField      ValidationKind = "missing_field"
	InvalidRange      ValidationKind = "invalid_range"
	InsufficientFunds ValidationKind = "insufficient_funds"
	Unconvergeable    ValidationKind = "unconvergeable"
)

// ValidationError is the structured failure returned by every engine entry
// point. Callers translate it into user-facing messages; the engine never
// formats currency or locale strings.
type ValidationError struct {
	Kind    ValidationKind
	Fields  []string // offending field names, for missing_field
	PlanID  string   // offending plan, for insufficient_funds
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	parts := []string{string(e.Kind)}
	if len(e.Fields) > 0 {
		parts = append(parts, "fields="+strings.Join(e.Fields, ","))
	}
	if e.PlanID != "" {
		parts = append(parts, "plan="+e.PlanID)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), e.Cause)
	}
	return strings.Join(parts, ": ")
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewMissingFieldError reports required numeric inputs that were blank or
// non-positive where positivity is required.
func NewMissingFieldError(fields ...string) *ValidationError {
	return &ValidationError{Kind: MissingField, Fields: fields}
}

// NewInvalidRangeError reports a value that violates a domain constraint.
func NewInvalidRangeError(message string) *ValidationError {
	return &ValidationError{Kind: InvalidRange, Message: message}
}

// NewInsufficientFundsError reports a reallocation event that could not be
// funded from the main balance.
func NewInsufficientFundsError(planID string, message string) *ValidationError {
	return &ValidationError{Kind: InsufficientFunds, PlanID: planID, Message: message}
}
