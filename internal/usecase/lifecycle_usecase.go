package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"jobtrack/internal/database"
	"jobtrack/internal/domain/application"
	"jobtrack/internal/domain/job"
	"jobtrack/internal/repository"

	"github.com/google/uuid"
)

// CreateApplicationInput has no notes on purpose; notes are an edit-time
// field and only come in through UpdateApplicationInput.
type CreateApplicationInput struct {
	SourceURL string
	JobFields job.Fields
	AppliedAt *time.Time
	Status    *application.Status
}

// UpdateApplicationInput carries a partial update; nil pointers leave the
// corresponding field untouched. JobFields forward onto the shared job row.
type UpdateApplicationInput struct {
	AppliedAt *time.Time
	Status    *application.Status
	Notes     *string
	JobFields job.Fields
}

type CreateSessionInput struct {
	Name        string
	ScheduledAt *time.Time
	SortOrder   int
	Notes       string
}

type UpdateSessionInput struct {
	Name        *string
	ScheduledAt *time.Time
	ClearTime   bool
	SortOrder   *int
	Notes       *string
}

// ApplicationDetail is an application joined with its job and sessions.
type ApplicationDetail struct {
	Application application.Application
	Job         job.Job
	Sessions    []application.InterviewSession
}

type ApplicationLifecycleUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateApplicationInput) (ApplicationDetail, error)
	Get(ctx context.Context, userID, id uuid.UUID) (ApplicationDetail, error)
	Update(ctx context.Context, userID, id uuid.UUID, in UpdateApplicationInput) (ApplicationDetail, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	AddSession(ctx context.Context, userID, appID uuid.UUID, in CreateSessionInput) (application.InterviewSession, error)
	UpdateSession(ctx context.Context, userID, appID, sessionID uuid.UUID, in UpdateSessionInput) (application.InterviewSession, error)
	DeleteSession(ctx context.Context, userID, appID, sessionID uuid.UUID) error
}

// ApplicationLifecycle owns every status transition and its counter side
// effects. Counters are a ledger: they only ever go up, and deleting an
// application never rolls them back.
type ApplicationLifecycle struct {
	db       database.DB
	registry JobResolver
	apps     repository.ApplicationRepository
	jobs     repository.JobRepository
	users    repository.UserRepository
	cache    Cache
	logger   *log.Logger
}

func NewApplicationLifecycleUsecase(
	db database.DB,
	registry JobResolver,
	apps repository.ApplicationRepository,
	jobs repository.JobRepository,
	users repository.UserRepository,
	cache Cache,
	logger *log.Logger,
) *ApplicationLifecycle {
	return &ApplicationLifecycle{
		db:       db,
		registry: registry,
		apps:     apps,
		jobs:     jobs,
		users:    users,
		cache:    cache,
		logger:   logger,
	}
}

func (u *ApplicationLifecycle) Create(ctx context.Context, userID uuid.UUID, in CreateApplicationInput) (ApplicationDetail, error) {
	if strings.TrimSpace(in.SourceURL) == "" {
		return ApplicationDetail{}, ErrInvalidInput
	}

	status := application.StatusApplied
	if in.Status != nil {
		status = *in.Status
	}
	appliedAt := time.Now().UTC()
	if in.AppliedAt != nil {
		appliedAt = *in.AppliedAt
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return ApplicationDetail{}, err
	}
	defer tx.Rollback(ctx)

	j, err := u.registry.Resolve(ctx, tx, ResolveJobInput{SourceURL: in.SourceURL, Fields: in.JobFields})
	if err != nil {
		return ApplicationDetail{}, err
	}

	existing, found, err := u.apps.FindActive(ctx, tx, userID, j.ID)
	if err != nil {
		return ApplicationDetail{}, err
	}
	if found {
		return ApplicationDetail{}, &ActiveApplicationError{ExistingID: existing.ID}
	}

	created, err := u.apps.Insert(ctx, tx, application.Application{
		UserID:    userID,
		JobID:     j.ID,
		AppliedAt: appliedAt,
		Status:    status,
	})
	if err != nil {
		// The partial unique index caught a duplicate the FindActive check
		// missed; report it the same way as the in-transaction check.
		if errors.Is(err, repository.ErrActiveApplicationRace) {
			return ApplicationDetail{}, &ActiveApplicationError{}
		}
		return ApplicationDetail{}, err
	}

	// total_applied counts creations, whatever the initial status.
	if err := u.users.IncrementApplied(ctx, tx, userID); err != nil {
		return ApplicationDetail{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ApplicationDetail{}, err
	}
	u.invalidateStats(ctx, userID)

	u.logger.Printf("application=created id=%s user_id=%s job_id=%s status=%s", created.ID, userID, j.ID, created.Status)
	return ApplicationDetail{Application: created, Job: j, Sessions: []application.InterviewSession{}}, nil
}

func (u *ApplicationLifecycle) Get(ctx context.Context, userID, id uuid.UUID) (ApplicationDetail, error) {
	app, err := u.apps.GetOwned(ctx, nil, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ApplicationDetail{}, ErrNotFound
		}
		return ApplicationDetail{}, err
	}
	return u.assembleDetail(ctx, app)
}

func (u *ApplicationLifecycle) Update(ctx context.Context, userID, id uuid.UUID, in UpdateApplicationInput) (ApplicationDetail, error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return ApplicationDetail{}, err
	}
	defer tx.Rollback(ctx)

	app, err := u.apps.GetOwned(ctx, tx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ApplicationDetail{}, ErrNotFound
		}
		return ApplicationDetail{}, err
	}

	prevStatus := app.Status
	if in.AppliedAt != nil {
		app.AppliedAt = *in.AppliedAt
	}
	if in.Status != nil {
		app.Status = *in.Status
	}
	if in.Notes != nil {
		app.Notes = *in.Notes
	}

	if err := u.apps.Update(ctx, tx, app); err != nil {
		if errors.Is(err, repository.ErrActiveApplicationRace) {
			return ApplicationDetail{}, &ActiveApplicationError{}
		}
		return ApplicationDetail{}, err
	}

	if !in.JobFields.Empty() {
		if err := u.jobs.UpdateFields(ctx, tx, app.JobID, in.JobFields); err != nil {
			return ApplicationDetail{}, err
		}
	}

	// Outcome counters tick only when the status actually changes into a
	// terminal state. Re-saving an already rejected application is a no-op.
	counted := false
	if app.Status != prevStatus {
		switch app.Status {
		case application.StatusRejected:
			err = u.users.IncrementRejected(ctx, tx, userID)
			counted = true
		case application.StatusGotOffer:
			err = u.users.IncrementSuccess(ctx, tx, userID)
			counted = true
		}
		if err != nil {
			return ApplicationDetail{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ApplicationDetail{}, err
	}
	if counted {
		u.invalidateStats(ctx, userID)
	}

	if app.Status != prevStatus {
		u.logger.Printf("application=transition id=%s user_id=%s from=%s to=%s", app.ID, userID, prevStatus, app.Status)
	}
	return u.assembleDetail(ctx, app)
}

func (u *ApplicationLifecycle) Delete(ctx context.Context, userID, id uuid.UUID) error {
	err := u.apps.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrApplicationNotFound) {
		return ErrNotFound
	}
	return err
}

func (u *ApplicationLifecycle) AddSession(ctx context.Context, userID, appID uuid.UUID, in CreateSessionInput) (application.InterviewSession, error) {
	if strings.TrimSpace(in.Name) == "" {
		return application.InterviewSession{}, ErrInvalidInput
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return application.InterviewSession{}, err
	}
	defer tx.Rollback(ctx)

	app, err := u.apps.GetOwned(ctx, tx, userID, appID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return application.InterviewSession{}, ErrNotFound
		}
		return application.InterviewSession{}, err
	}
	if !app.Status.Active() {
		return application.InterviewSession{}, ErrApplicationClosed
	}

	created, err := u.apps.InsertSession(ctx, tx, application.InterviewSession{
		JobApplicationID: appID,
		Name:             strings.TrimSpace(in.Name),
		ScheduledAt:      in.ScheduledAt,
		SortOrder:        in.SortOrder,
		Notes:            in.Notes,
	})
	if err != nil {
		return application.InterviewSession{}, err
	}

	// A first interview means the application is no longer just "applied".
	// The move to in_progress is bookkeeping, not an outcome, so no counter.
	if app.Status == application.StatusApplied {
		app.Status = application.StatusInProgress
		if err := u.apps.Update(ctx, tx, app); err != nil {
			return application.InterviewSession{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return application.InterviewSession{}, err
	}

	u.logger.Printf("session=created id=%s application_id=%s user_id=%s", created.ID, appID, userID)
	return created, nil
}

func (u *ApplicationLifecycle) UpdateSession(ctx context.Context, userID, appID, sessionID uuid.UUID, in UpdateSessionInput) (application.InterviewSession, error) {
	s, err := u.apps.GetOwnedSession(ctx, userID, appID, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return application.InterviewSession{}, ErrNotFound
		}
		return application.InterviewSession{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return application.InterviewSession{}, ErrInvalidInput
		}
		s.Name = name
	}
	if in.ClearTime {
		s.ScheduledAt = nil
	} else if in.ScheduledAt != nil {
		s.ScheduledAt = in.ScheduledAt
	}
	if in.SortOrder != nil {
		s.SortOrder = *in.SortOrder
	}
	if in.Notes != nil {
		s.Notes = *in.Notes
	}

	if err := u.apps.UpdateSession(ctx, s); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return application.InterviewSession{}, ErrNotFound
		}
		return application.InterviewSession{}, err
	}
	return s, nil
}

func (u *ApplicationLifecycle) DeleteSession(ctx context.Context, userID, appID, sessionID uuid.UUID) error {
	err := u.apps.DeleteSession(ctx, userID, appID, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return ErrNotFound
	}
	return err
}

func (u *ApplicationLifecycle) assembleDetail(ctx context.Context, app application.Application) (ApplicationDetail, error) {
	j, err := u.jobs.GetByID(ctx, u.db, app.JobID)
	if err != nil {
		return ApplicationDetail{}, err
	}
	sessions, err := u.apps.ListSessions(ctx, nil, app.ID)
	if err != nil {
		return ApplicationDetail{}, err
	}
	return ApplicationDetail{Application: app, Job: j, Sessions: sessions}, nil
}

func (u *ApplicationLifecycle) invalidateStats(ctx context.Context, userID uuid.UUID) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, UserStatsCacheKey(userID)); err != nil {
		u.logger.Printf("cache=delete key=%s status=error err=%v", UserStatsCacheKey(userID), err)
	}
}

var _ ApplicationLifecycleUsecase = (*ApplicationLifecycle)(nil)
