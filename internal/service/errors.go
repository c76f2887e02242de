package service

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the service error taxonomy. The API layer maps
// these onto HTTP statuses; anything else surfaces as a generic server
// error with the detail kept in the logs.
var (
	// ErrInvalidCredentials covers every authentication failure without
	// revealing whether the account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConflict signals a duplicate unique key (email, username).
	ErrConflict = errors.New("resource already exists")

	// ErrForbidden signals an authenticated caller acting on an entity
	// they are not allowed to mutate.
	ErrForbidden = errors.New("not allowed")

	// ErrNotFound signals no matching entity. Also used where revealing
	// the entity's existence would leak information.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports malformed, missing or out-of-range input for a
// named field. Checked at the boundary before any store mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
