package domain

import "fmt"

// ValidationError reports malformed or out-of-range input. Details carries
// the full field-level error list so a caller can fix everything in one
// round trip.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with optional field details.
func NewValidationError(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// NotFoundError reports a lookup for a resource that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFoundError creates a NotFoundError for the given resource and id.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError reports an operation that is illegal in the current state,
// such as a status transition outside the lifecycle table.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError creates a ConflictError.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// ForbiddenError reports a role mismatch. RequiredRoles names the roles
// that would have been accepted.
type ForbiddenError struct {
	Message       string
	RequiredRoles []string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(message string, requiredRoles ...string) *ForbiddenError {
	return &ForbiddenError{Message: message, RequiredRoles: requiredRoles}
}
