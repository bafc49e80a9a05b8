package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID
	Email      string
	Name       string
	AvatarURL  string
	Provider   string
	ProviderID string
	IsAdmin    bool
	IsActive   bool

	// Cumulative tallies, only ever incremented by lifecycle transitions.
	// They record "this ever happened" and are not reconciled against the
	// current application rows.
	TotalApplied  int
	TotalRejected int
	TotalSuccess  int

	CreatedAt time.Time
}

// Stats is the ledger triple shown on the dashboard.
type Stats struct {
	Applied  int
	Rejected int
	Success  int
}

func (u User) Stats() Stats {
	return Stats{Applied: u.TotalApplied, Rejected: u.TotalRejected, Success: u.TotalSuccess}
}
