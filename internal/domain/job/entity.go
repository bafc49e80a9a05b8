package job

import (
	"time"

	"github.com/google/uuid"
)

// Job is the canonical posting record, one row per unique source URL and
// shared across every user who applies to it. Identity (ID, SourceURL) is
// immutable; display fields are last-write-wins.
type Job struct {
	ID           uuid.UUID
	SourceURL    string
	Title        string
	Company      string
	Description  string
	Location     string
	SourceDomain string
	CreatedAt    time.Time
}

// Fields is a partial update bag for display fields. A nil pointer means
// "not provided"; a non-nil pointer overwrites unconditionally.
type Fields struct {
	Title        *string
	Company      *string
	Description  *string
	Location     *string
	SourceDomain *string
}

func (f Fields) Empty() bool {
	return f.Title == nil && f.Company == nil && f.Description == nil &&
		f.Location == nil && f.SourceDomain == nil
}
