// Package domain holds the error taxonomy shared by services and the HTTP layer.
package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
	Code() string
}

// Sentinel errors, matched with errors.Is against the typed errors below.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("already exists")
	ErrNotFound   = errors.New("not found")
	ErrConstraint = errors.New("constraint violated")
)

type (
	// ValidationError indicates a missing or malformed required field.
	ValidationError struct {
		Message string
	}

	// ConflictError indicates a unique-constraint violation.
	ConflictError struct {
		Message  string
		Resource string
	}

	// NotFoundError indicates the referenced row is absent.
	NotFoundError struct {
		Message  string
		Resource string
		ID       string
	}

	// ConstraintError indicates a referential-integrity block.
	ConstraintError struct {
		Message string
	}
)

func (e *ValidationError) Error() string { return e.Message }
func (e *ConflictError) Error() string   { return e.Message }
func (e *NotFoundError) Error() string   { return e.Message }
func (e *ConstraintError) Error() string { return e.Message }

// Conflicts and constraint blocks are reported as 400, matching the established API contract.
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *ConflictError) StatusCode() int   { return http.StatusBadRequest }
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ConstraintError) StatusCode() int { return http.StatusBadRequest }

func (e *ValidationError) Code() string { return "VALIDATION_ERROR" }
func (e *ConflictError) Code() string   { return "CONFLICT" }
func (e *NotFoundError) Code() string   { return "NOT_FOUND" }
func (e *ConstraintError) Code() string { return "CONSTRAINT_VIOLATION" }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *ConflictError) Is(target error) bool   { return target == ErrConflict }
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }

// NewValidation builds a ValidationError.
func NewValidation(msg string) error {
	return &ValidationError{Message: msg}
}

// NewConflict builds a ConflictError for the given resource.
func NewConflict(resource, msg string) error {
	return &ConflictError{Resource: resource, Message: msg}
}

// NewNotFound builds a NotFoundError with a "<resource> not found" message.
func NewNotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id, Message: resource + " not found"}
}

// NewConstraint builds a ConstraintError.
func NewConstraint(msg string) error {
	return &ConstraintError{Message: msg}
}
