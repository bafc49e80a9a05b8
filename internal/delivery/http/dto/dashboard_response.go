package dto

import (
	"time"

	"jobtrack/internal/domain/user"
	"jobtrack/internal/repository"

	"github.com/google/uuid"
)

type StatsResponse struct {
	Applied  int `json:"applied"`
	Rejected int `json:"rejected"`
	Success  int `json:"success"`
}

func NewStatsResponse(s user.Stats) StatsResponse {
	return StatsResponse{Applied: s.Applied, Rejected: s.Rejected, Success: s.Success}
}

type UpcomingInterviewResponse struct {
	ApplicationID uuid.UUID `json:"application_id"`
	SessionID     uuid.UUID `json:"session_id"`
	SessionName   string    `json:"session_name"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	JobTitle      *string   `json:"job_title"`
	Company       *string   `json:"company"`
}

func NewUpcomingInterviewResponses(rows []repository.UpcomingSessionRow) []UpcomingInterviewResponse {
	out := make([]UpcomingInterviewResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, UpcomingInterviewResponse{
			ApplicationID: r.ApplicationID,
			SessionID:     r.SessionID,
			SessionName:   r.SessionName,
			ScheduledAt:   r.ScheduledAt,
			JobTitle:      optional(r.JobTitle),
			Company:       optional(r.Company),
		})
	}
	return out
}
