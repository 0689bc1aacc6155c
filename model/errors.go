// Package model - typed domain conditions. The REST layer maps these to
// transport status codes; the core never does.
package model

import (
	"errors"
	"fmt"
)

// Precondition conditions raised by the ingestion merger before any mutation.
var (
	// ErrRepositoryNotRegistered means the BOM's source repository URL has not
	// been registered in the catalog yet.
	ErrRepositoryNotRegistered = errors.New("repository not registered")

	// ErrRepositoryNotLinked means the registered repository is not linked to
	// any system.
	ErrRepositoryNotLinked = errors.New("repository not linked to any system")
)

// ValidationError is a caller error: a filter or rule field holds an
// unrecognized or malformed value.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// PreconditionError wraps a precondition condition with the repository URL it
// was raised for.
type PreconditionError struct {
	RepositoryURL string
	Err           error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.RepositoryURL)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a caller validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPrecondition reports whether err is an ingestion precondition failure.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrRepositoryNotRegistered) || errors.Is(err, ErrRepositoryNotLinked)
}
