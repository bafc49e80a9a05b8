package dto

import (
	"time"

	"jobtrack/internal/domain/application"
	"jobtrack/internal/domain/job"
	"jobtrack/internal/repository"
	"jobtrack/internal/usecase"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID           uuid.UUID `json:"id"`
	SourceURL    string    `json:"source_url"`
	Title        *string   `json:"title"`
	Company      *string   `json:"company"`
	Description  *string   `json:"description"`
	Location     *string   `json:"location"`
	SourceDomain *string   `json:"source_domain"`
}

func NewJobResponse(j job.Job) JobResponse {
	return JobResponse{
		ID:           j.ID,
		SourceURL:    j.SourceURL,
		Title:        optional(j.Title),
		Company:      optional(j.Company),
		Description:  optional(j.Description),
		Location:     optional(j.Location),
		SourceDomain: optional(j.SourceDomain),
	}
}

type InterviewSessionResponse struct {
	ID               uuid.UUID  `json:"id"`
	JobApplicationID uuid.UUID  `json:"job_application_id"`
	Name             string     `json:"name"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	SortOrder        int        `json:"sort_order"`
	Notes            *string    `json:"notes"`
}

func NewInterviewSessionResponse(s application.InterviewSession) InterviewSessionResponse {
	return InterviewSessionResponse{
		ID:               s.ID,
		JobApplicationID: s.JobApplicationID,
		Name:             s.Name,
		ScheduledAt:      s.ScheduledAt,
		SortOrder:        s.SortOrder,
		Notes:            optional(s.Notes),
	}
}

type ApplicationResponse struct {
	ID                uuid.UUID                  `json:"id"`
	UserID            uuid.UUID                  `json:"user_id"`
	JobID             uuid.UUID                  `json:"job_id"`
	AppliedAt         string                     `json:"applied_at"`
	Status            string                     `json:"status"`
	Notes             *string                    `json:"notes"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
	Job               JobResponse                `json:"job"`
	InterviewSessions []InterviewSessionResponse `json:"interview_sessions"`
}

func NewApplicationResponse(d usecase.ApplicationDetail) ApplicationResponse {
	sessions := make([]InterviewSessionResponse, 0, len(d.Sessions))
	for _, s := range d.Sessions {
		sessions = append(sessions, NewInterviewSessionResponse(s))
	}

	a := d.Application
	return ApplicationResponse{
		ID:                a.ID,
		UserID:            a.UserID,
		JobID:             a.JobID,
		AppliedAt:         a.AppliedAt.Format(dateLayout),
		Status:            string(a.Status),
		Notes:             optional(a.Notes),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
		Job:               NewJobResponse(d.Job),
		InterviewSessions: sessions,
	}
}

type ApplicationListItemResponse struct {
	ID           uuid.UUID `json:"id"`
	JobID        uuid.UUID `json:"job_id"`
	AppliedAt    string    `json:"applied_at"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	SourceURL    string    `json:"source_url"`
	Title        *string   `json:"title"`
	Company      *string   `json:"company"`
	SourceDomain *string   `json:"source_domain"`
}

func NewApplicationListResponse(rows []repository.ApplicationListRow) []ApplicationListItemResponse {
	out := make([]ApplicationListItemResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ApplicationListItemResponse{
			ID:           r.ID,
			JobID:        r.JobID,
			AppliedAt:    r.AppliedAt.Format(dateLayout),
			Status:       string(r.Status),
			CreatedAt:    r.CreatedAt,
			SourceURL:    r.SourceURL,
			Title:        optional(r.Title),
			Company:      optional(r.Company),
			SourceDomain: optional(r.SourceDomain),
		})
	}
	return out
}
