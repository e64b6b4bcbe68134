package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no row matches the ownership-scoped
// predicate. The same error covers "does not exist" and "exists under a
// different owner" so that existence is never leaked across accounts.
var ErrNotFound = errors.New("record not found")

// ErrProjectPrecondition is returned by issue operations when the parent
// project does not exist or is not owned by the requesting user. It is
// deliberately distinct from ErrNotFound.
var ErrProjectPrecondition = errors.New("project does not exist or is not owned by you")

// ErrInvalidCredentials is returned on failed logins.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ConflictError reports a uniqueness violation on a specific field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a record with this %s already exists", e.Field)
}

// ValidationError reports malformed input caught before any store call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
