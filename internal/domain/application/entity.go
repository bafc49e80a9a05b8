package application

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusApplied    Status = "applied"
	StatusInProgress Status = "in_progress"
	StatusRejected   Status = "rejected"
	StatusGotOffer   Status = "got_offer"
)

// ParseStatus validates a wire value. The zero value of ok means the input
// is not a known status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusApplied, StatusInProgress, StatusRejected, StatusGotOffer:
		return Status(s), true
	default:
		return "", false
	}
}

// Active reports whether the status is one of the open states during which
// a duplicate application is disallowed and interview sessions may be added.
func (s Status) Active() bool {
	return s == StatusApplied || s == StatusInProgress
}

type Application struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	JobID     uuid.UUID
	AppliedAt time.Time
	Status    Status
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type InterviewSession struct {
	ID               uuid.UUID
	JobApplicationID uuid.UUID
	Name             string
	ScheduledAt      *time.Time
	SortOrder        int
	Notes            string
}
