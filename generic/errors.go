/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Adapters (HTTP, CLI) map them to status codes and operator messages.

ERROR CATEGORIES:
  1. Registration errors - name collisions
  2. Lookup errors - unknown employee or dated entry
  3. Input errors - malformed fields, wrong employee kind, inverted ranges
  4. Persistence errors - load/save failures

USAGE:
  if errors.Is(err, generic.ErrNotFound) {
      // 404
  }

  var dup *generic.DuplicateNameError
  if errors.As(err, &dup) {
      fmt.Println("taken:", dup.Name)
  }
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDuplicateName is returned when registering or renaming onto a name
	// that already exists in either employee kind.
	ErrDuplicateName = errors.New("employee name already exists")

	// ErrNotFound is returned for an unknown employee or a missing dated entry.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed fields at the boundary.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRange is returned when a period starts after it ends.
	ErrInvalidRange = errors.New("invalid range: start after end")

	// ErrPersistence is returned when the snapshot cannot be read or written.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DuplicateNameError names the colliding employee.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("employee %q already exists", e.Name)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// NotFoundError describes what was looked up. Date is empty for employee
// lookups.
type NotFoundError struct {
	Name   string
	Ledger string // "attendance", "deduction", ... or "" for the employee itself
	Date   string
}

func (e *NotFoundError) Error() string {
	if e.Ledger == "" {
		return fmt.Sprintf("employee %q not found", e.Name)
	}
	return fmt.Sprintf("%s for %q on %s not found", e.Ledger, e.Name, e.Date)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidInputError reports a single malformed field.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// KindMismatchError is returned when an operation only applies to one
// employee kind (e.g. attendance on a salaried employee).
type KindMismatchError struct {
	Name string
	Want string
	Got  string
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("employee %q is %s, operation requires %s", e.Name, e.Got, e.Want)
}

func (e *KindMismatchError) Unwrap() error { return ErrInvalidInput }

// InvalidRangeError carries the inverted bounds.
type InvalidRangeError struct {
	From TimePoint
	To   TimePoint
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: %s is after %s", e.From, e.To)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// PersistenceError wraps an I/O or encoding failure.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid operator input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrDuplicateName)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
