// Package apperr holds the error taxonomy shared by the ledger, benefit, member
// and cooperative services. Every structured error unwraps to one of the
// sentinels below so callers can branch with errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrValidation is returned when input does not satisfy a schema.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientBalance is returned when a debit exceeds the available funds.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAlreadyClaimed is returned when a benefit is no longer available.
	ErrAlreadyClaimed = errors.New("benefit already claimed")

	// ErrPersistence is returned when a store operation fails.
	ErrPersistence = errors.New("persistence failure")

	// ErrMemberLookup is returned when the member balances could not be read.
	ErrMemberLookup = errors.New("member lookup failed")

	// ErrConcurrentModification is returned when a guarded update matched no row
	// because the row changed after it was read.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// FieldError is a single schema violation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// ValidationError carries every violation found in one validation pass.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}

	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InsufficientBalanceError reports the funds that were available for a debit.
type InsufficientBalanceError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %s, requested %s",
		e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

type AlreadyClaimedError struct {
	BenefitID string
	ClaimedAt *time.Time
}

func (e *AlreadyClaimedError) Error() string {
	if e.ClaimedAt != nil {
		return fmt.Sprintf("benefit %s already claimed at %s", e.BenefitID, e.ClaimedAt.Format(time.RFC3339))
	}

	return fmt.Sprintf("benefit %s already claimed", e.BenefitID)
}

func (e *AlreadyClaimedError) Unwrap() error {
	return ErrAlreadyClaimed
}

// PersistenceError wraps a failed store operation. Op names the step that failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}

// MemberLookupError unwraps to ErrMemberLookup and to the underlying cause,
// which is ErrNotFound when the member does not exist.
type MemberLookupError struct {
	MemberID int64
	Err      error
}

func (e *MemberLookupError) Error() string {
	return fmt.Sprintf("looking up member %d: %v", e.MemberID, e.Err)
}

func (e *MemberLookupError) Unwrap() []error {
	return []error{ErrMemberLookup, e.Err}
}

// IsClientError returns true if the error is caused by the request itself.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrAlreadyClaimed) ||
		IsNotFound(err)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
