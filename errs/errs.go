package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a mutation targets an id with no matching row.
	ErrNotFound = errors.New("record not found")
	// ErrNotAuthorized is returned when a policy predicate denies the actor.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrConflict is returned when an optimistic write keeps losing to concurrent writers.
	ErrConflict = errors.New("concurrent modification")
)

// ValidationError wraps a request that failed shape, range or length checks.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// FormatError wraps settings text that could not be decoded.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid settings format: %v", e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// StorageError wraps a failed round trip to the database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
