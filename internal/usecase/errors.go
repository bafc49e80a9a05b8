package usecase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")

	// ErrApplicationClosed gates interview sessions: they may only be added
	// while the application is applied or in_progress.
	ErrApplicationClosed = errors.New("interview sessions can only be added when status is applied or in_progress")
)

// ActiveApplicationError rejects a second open application for the same
// (user, job) pair. ExistingID names the open application when known; under
// a concurrent-create race the id may be Nil.
type ActiveApplicationError struct {
	ExistingID uuid.UUID
}

func (e *ActiveApplicationError) Error() string {
	if e == nil {
		return ""
	}
	if e.ExistingID == uuid.Nil {
		return "an active application for this job already exists"
	}
	return fmt.Sprintf("an active application for this job already exists: %s", e.ExistingID)
}
