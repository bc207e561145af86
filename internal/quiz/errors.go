package quiz

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds. Callers match with errors.Is; the entity errors below wrap them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("not authorized")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage failure")
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrSubjectNotFound  = fmt.Errorf("subject %w", ErrNotFound)
	ErrChapterNotFound  = fmt.Errorf("chapter %w", ErrNotFound)
	ErrQuizNotFound     = fmt.Errorf("quiz %w", ErrNotFound)
	ErrQuestionNotFound = fmt.Errorf("question %w", ErrNotFound)
	ErrAttemptNotFound  = fmt.Errorf("attempt %w", ErrNotFound)

	ErrAttemptNotOwned    = fmt.Errorf("attempt belongs to another user: %w", ErrUnauthorized)
	ErrAdminRequired      = fmt.Errorf("admin access required: %w", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("invalid username or password: %w", ErrUnauthorized)

	ErrAttemptCompleted = fmt.Errorf("attempt already submitted: %w", ErrConflict)
	ErrDuplicateUser    = fmt.Errorf("username or email already exists: %w", ErrConflict)
	ErrDuplicateSubject = fmt.Errorf("subject name already exists: %w", ErrConflict)
)

// ValidationError is a user-correctable input problem on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// storageError tags unexpected repository failures with ErrStorage and leaves
// domain errors and context cancellation untouched.
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrValidation, ErrNotFound, ErrUnauthorized, ErrConflict, ErrStorage, context.Canceled, context.DeadlineExceeded} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
