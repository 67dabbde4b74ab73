package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match the typed errors against their sentinels
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// CodeDuplicateName is the machine-readable code carried by name conflicts,
// so clients can show a specific "duplicate name" message.
const CodeDuplicateName = "duplicate_name"

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // folder, deck
	ResourceID   string // ID of the existing/conflicting resource, if known
}

// NewDuplicateNameError builds the conflict returned when a sibling already uses name.
func NewDuplicateNameError(resourceType, name, existingID string) *ConflictError {
	return &ConflictError{
		Message:      fmt.Sprintf("a %s named %q already exists in this location", resourceType, name),
		ResourceType: resourceType,
		ResourceID:   existingID,
	}
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Code returns the machine-readable conflict code
func (e *ConflictError) Code() string {
	return CodeDuplicateName
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// IsDuplicateName reports whether err is a sibling-name conflict.
func IsDuplicateName(err error) bool {
	var conflictErr *ConflictError
	if errors.As(err, &conflictErr) {
		return conflictErr.Code() == CodeDuplicateName
	}
	return errors.Is(err, ErrConflict)
}
