package shared

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed caller input.
	ErrValidation = errors.New("validation failed")
	// ErrPolicyViolation indicates a request outside waiver policy limits.
	ErrPolicyViolation = errors.New("policy violation")
	// ErrPlanNotFound indicates an unresolved service plan.
	ErrPlanNotFound = errors.New("service plan not found")
	// ErrInvalidTransition indicates a forbidden appointment status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// NotFoundError reports an unresolved customer or appointment identifier.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// Unwrap lets errors.Is match ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound builds a NotFoundError.
func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation builds a ValidationError.
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PolicyViolationError is returned when a waiver exceeds the policy cap.
type PolicyViolationError struct {
	Cap       decimal.Decimal
	Requested decimal.Decimal
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("waiver amount $%s exceeds cap of $%s", e.Requested.StringFixed(2), e.Cap.StringFixed(2))
}

// Unwrap lets errors.Is match ErrPolicyViolation.
func (e *PolicyViolationError) Unwrap() error { return ErrPolicyViolation }

// PlanNotFoundError is returned when neither exact nor fuzzy plan lookup succeeds.
type PlanNotFoundError struct {
	Plan string
}

func (e *PlanNotFoundError) Error() string {
	return fmt.Sprintf("unknown service plan: %s", e.Plan)
}

// Unwrap lets errors.Is match ErrPlanNotFound.
func (e *PlanNotFoundError) Unwrap() error { return ErrPlanNotFound }

// InvalidTransitionError reports a status change the lifecycle forbids.
type InvalidTransitionError struct {
	ID   string
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("appointment %s cannot move from %s to %s", e.ID, e.From, e.To)
}

// Unwrap lets errors.Is match ErrInvalidTransition.
func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// UserSafeMessage returns an error message suitable for callers.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrPolicyViolation),
		errors.Is(err, ErrPlanNotFound),
		errors.Is(err, ErrInvalidTransition):
		return err.Error()
	default:
		return "internal error"
	}
}
