package services

import "fmt"

// ValidationError rejects bad input or a failed precondition.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports an unknown entity id.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Resource, e.ID)
}

func NewNotFoundError(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError reports a duplicate, an illegal state transition, or a
// non-empty dependency.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// ExpiredError is a conflict caused by a quote past its validity window,
// surfaced distinctly so callers can prompt for a fresh quote.
type ExpiredError struct {
	Message string
}

func (e *ExpiredError) Error() string {
	return e.Message
}

func NewExpiredError(message string) *ExpiredError {
	return &ExpiredError{Message: message}
}
