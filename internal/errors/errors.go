// Package errors defines the error taxonomy of the catalog core.
// CatalogError carries a type classification plus an optional cause.
package errors

import (
	stderrors "errors"
	"fmt"
)

// CatalogError represents a classified failure in the catalog core
type CatalogError struct {
	Type    string
	Message string
	Cause   error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// Error type constants
const (
	// Bad caller input, rejected before any I/O
	ErrorTypeValidation = "VALIDATION"
	// Non-success response or transport failure
	ErrorTypeRemote = "REMOTE"
	// Well-formed response signalling absence of data
	ErrorTypeNotFound = "NOT_FOUND"
	// Favorites store unreadable or unwritable
	ErrorTypePersistence = "PERSISTENCE"
)

// NewCatalogError creates a new CatalogError
func NewCatalogError(errorType, message string, cause error) *CatalogError {
	return &CatalogError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

func NewValidationError(message string) *CatalogError {
	return NewCatalogError(ErrorTypeValidation, message, nil)
}

func NewRemoteError(message string, cause error) *CatalogError {
	return NewCatalogError(ErrorTypeRemote, message, cause)
}

func NewNotFoundError(message string) *CatalogError {
	return NewCatalogError(ErrorTypeNotFound, message, nil)
}

func NewPersistenceError(message string, cause error) *CatalogError {
	return NewCatalogError(ErrorTypePersistence, message, cause)
}

// TypeOf returns the classification of err, or "" when err is not a CatalogError.
func TypeOf(err error) string {
	var ce *CatalogError
	if stderrors.As(err, &ce) {
		return ce.Type
	}
	return ""
}

func IsValidation(err error) bool  { return TypeOf(err) == ErrorTypeValidation }
func IsRemote(err error) bool      { return TypeOf(err) == ErrorTypeRemote }
func IsNotFound(err error) bool    { return TypeOf(err) == ErrorTypeNotFound }
func IsPersistence(err error) bool { return TypeOf(err) == ErrorTypePersistence }

// UserMessage renders err as the text shown on the active surface.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *CatalogError
	if stderrors.As(err, &ce) {
		switch ce.Type {
		case ErrorTypeNotFound:
			return ce.Message
		case ErrorTypeRemote:
			if ce.Cause != nil {
				return fmt.Sprintf("Error: %s: %v", ce.Message, ce.Cause)
			}
			return "Error: " + ce.Message
		}
		return ce.Message
	}
	return "Error: " + err.Error()
}
