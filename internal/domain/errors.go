// Package domain contains the core business entities for userboard.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (storage, encoding, etc.).

var (
	// ErrUserNotFound indicates the referenced username does not exist.
	// Under normal single-process use this is a defensive assertion: a
	// username a view holds should still be in the collection.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken indicates a record with the same username exists
	// (compared case-insensitively).
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials indicates login failed. Deliberately
	// undifferentiated so callers cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthorized indicates the current session may not use the
	// requested surface (e.g. a non-admin opening the console).
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNoActiveSession indicates an operation needed a session and none
	// was present in the scoped store.
	ErrNoActiveSession = errors.New("no active session")
)

// FieldErrors maps a field name to a single human-readable message.
// An empty map signals a valid record.
type FieldErrors map[string]string

// Fields returns the failing field names in stable order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for name := range fe {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidationError carries the per-field failures of a submitted record.
// It is recoverable: the caller surfaces the messages and lets the user
// retry with the prior state untouched.
type ValidationError struct {
	Fields FieldErrors
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Fields.Fields(), ", "))
}

// NewValidationError wraps a non-empty field-error mapping.
func NewValidationError(fields FieldErrors) *ValidationError {
	return &ValidationError{Fields: fields}
}

// AsValidationError unwraps a *ValidationError from err, if present.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
