package usecase

import (
	"errors"
	"fmt"
	"strings"

	"reservation-bot/internal/data/repository"
)

var (
	// ErrTimeNotParseable means the text held no recognisable clock time.
	ErrTimeNotParseable = errors.New("time not parseable")
	// ErrSlotTaken is matched by every *ConflictError.
	ErrSlotTaken = errors.New("slot taken")
	// ErrNotConfigured means an optional capability has nothing to work with.
	ErrNotConfigured = errors.New("not configured")
	// ErrRepository wraps persistence failures.
	ErrRepository = errors.New("repository failure")
	// ErrCollaborator wraps notifier, calendar and classifier failures.
	ErrCollaborator = errors.New("collaborator failure")

	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrValidation         = errors.New("validation failed")
)

// ConflictError reports a taken slot together with the nearest free
// alternatives of that day.
type ConflictError struct {
	Date        string
	Time        string
	Suggestions []string
}

func (e *ConflictError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("slot %s %s taken, no free slots", e.Date, e.Time)
	}
	return fmt.Sprintf("slot %s %s taken, try %s", e.Date, e.Time, strings.Join(e.Suggestions, ", "))
}

func (e *ConflictError) Unwrap() error { return ErrSlotTaken }

func repoErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("%s: %w: %w", op, ErrAlreadyExists, err)
	}
	if errors.Is(err, repository.ErrInvalidTransition) {
		return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrRepository, err)
}

func collaboratorErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrCollaborator, err)
}
