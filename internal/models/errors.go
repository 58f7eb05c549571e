package models

import (
	"fmt"
	"strings"
)

// ValidationError indicates the request itself was malformed: empty or
// duplicate seat numbers, seats outside the bus layout, bad passenger fields.
// No state was changed.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with a formatted reason
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError indicates one or more requested seats were claimed by another
// booking between validation and commit. The caller should re-fetch the seat
// map and retry with different seats. No partial write occurred.
type ConflictError struct {
	TakenSeats []int
}

func (e *ConflictError) Error() string {
	if len(e.TakenSeats) == 0 {
		return "seat selection conflicts with an existing booking"
	}
	parts := make([]string, len(e.TakenSeats))
	for i, s := range e.TakenSeats {
		parts[i] = fmt.Sprintf("%d", s)
	}
	return fmt.Sprintf("seat(s) %s no longer available", strings.Join(parts, ", "))
}

// NotFoundError indicates the requested resource does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// PersistenceError wraps a storage failure. The whole operation was rolled
// back; nothing was partially applied.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ForbiddenError indicates the requester is not allowed to act on the resource
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}
