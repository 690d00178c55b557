// Package apperr defines the error kinds shared by the scheduling stores.
//
// Call sites wrap a kind with context, e.g.
//
//	fmt.Errorf("%w: title cannot be empty", apperr.ErrValidation)
//
// and callers at the edges test with errors.Is.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrValidation  = errors.New("invalid input")
	ErrNotFound    = errors.New("not found")
	ErrEmptySource = errors.New("nothing to copy")
	ErrPersistence = errors.New("storage failure")
)

// Kind names the kind of err, or "" if err is not one of ours.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrEmptySource):
		return "empty_source"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return ""
	}
}

// Persistence wraps a collaborator failure as ErrPersistence.
// A context deadline is reported as a timeout so the user knows to retry.
// Errors that already carry a kind are returned unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != "" {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s timed out", ErrPersistence, op)
	}
	return fmt.Errorf("%w: %s: %v", ErrPersistence, op, err)
}

// Retryable reports whether the operation may succeed if simply repeated.
func Retryable(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// Message returns the notification text shown to the user for err.
func Message(err error) string {
	switch Kind(err) {
	case "validation":
		return err.Error()
	case "not_found":
		return "That item no longer exists. The view has been refreshed."
	case "empty_source":
		return err.Error()
	case "persistence":
		return "Could not save changes (" + err.Error() + "). Your edit was kept, try again."
	default:
		if err == nil {
			return ""
		}
		return "Error: " + err.Error()
	}
}
