package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"jobtrack/internal/database"
	"jobtrack/internal/domain/application"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrSessionNotFound     = errors.New("interview session not found")

	// ErrActiveApplicationRace is returned when the partial unique index
	// rejects a concurrent duplicate that the in-transaction check missed.
	ErrActiveApplicationRace = errors.New("active application already exists")
)

// ApplicationListFilter narrows List; zero values mean "no filter".
type ApplicationListFilter struct {
	Status  application.Status
	Search  string
	SortAsc bool
}

// ApplicationListRow is the Application x Job join returned by List.
type ApplicationListRow struct {
	ID           uuid.UUID
	JobID        uuid.UUID
	AppliedAt    time.Time
	Status       application.Status
	CreatedAt    time.Time
	SourceURL    string
	Title        string
	Company      string
	SourceDomain string
}

// UpcomingSessionRow is a scheduled interview joined to its application and job.
type UpcomingSessionRow struct {
	ApplicationID uuid.UUID
	SessionID     uuid.UUID
	SessionName   string
	ScheduledAt   time.Time
	JobTitle      string
	Company       string
}

type ApplicationRepository interface {
	Insert(ctx context.Context, q database.Queryer, app application.Application) (application.Application, error)
	GetOwned(ctx context.Context, q database.Queryer, userID, id uuid.UUID) (application.Application, error)
	FindActive(ctx context.Context, q database.Queryer, userID, jobID uuid.UUID) (application.Application, bool, error)
	Update(ctx context.Context, q database.Queryer, app application.Application) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, f ApplicationListFilter) ([]ApplicationListRow, error)

	InsertSession(ctx context.Context, q database.Queryer, s application.InterviewSession) (application.InterviewSession, error)
	GetOwnedSession(ctx context.Context, userID, appID, sessionID uuid.UUID) (application.InterviewSession, error)
	UpdateSession(ctx context.Context, s application.InterviewSession) error
	DeleteSession(ctx context.Context, userID, appID, sessionID uuid.UUID) error
	ListSessions(ctx context.Context, q database.Queryer, appID uuid.UUID) ([]application.InterviewSession, error)
	UpcomingSessions(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]UpcomingSessionRow, error)
}

const applicationColumns = `id, user_id, job_id, applied_at, status, COALESCE(notes, ''), created_at, updated_at`

const sessionColumns = `id, job_application_id, name, scheduled_at, COALESCE(sort_order, 0), COALESCE(notes, '')`

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Insert(ctx context.Context, q database.Queryer, app application.Application) (application.Application, error) {
	row := q.QueryRow(ctx,
		`INSERT INTO job_applications (user_id, job_id, applied_at, status, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+applicationColumns,
		app.UserID, app.JobID, app.AppliedAt, app.Status, nullableText(app.Notes),
	)
	out, err := scanApplication(row)
	if err != nil {
		if isUniqueViolation(err, "job_applications_active_uq") {
			return application.Application{}, ErrActiveApplicationRace
		}
		return application.Application{}, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) GetOwned(ctx context.Context, q database.Queryer, userID, id uuid.UUID) (application.Application, error) {
	if q == nil {
		q = r.db
	}
	row := q.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM job_applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) FindActive(ctx context.Context, q database.Queryer, userID, jobID uuid.UUID) (application.Application, bool, error) {
	row := q.QueryRow(ctx,
		`SELECT `+applicationColumns+`
		 FROM job_applications
		 WHERE user_id = $1 AND job_id = $2 AND status IN ('applied', 'in_progress')
		 LIMIT 1`,
		userID, jobID,
	)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			return application.Application{}, false, nil
		}
		return application.Application{}, false, err
	}
	return app, true, nil
}

func (r *PostgresApplicationRepository) Update(ctx context.Context, q database.Queryer, app application.Application) error {
	n, err := q.Exec(ctx,
		`UPDATE job_applications
		 SET applied_at = $3, status = $4, notes = $5, updated_at = now()
		 WHERE id = $1 AND user_id = $2`,
		app.ID, app.UserID, app.AppliedAt, app.Status, nullableText(app.Notes),
	)
	if err != nil {
		if isUniqueViolation(err, "job_applications_active_uq") {
			return ErrActiveApplicationRace
		}
		return err
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`DELETE FROM job_applications WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) List(ctx context.Context, userID uuid.UUID, f ApplicationListFilter) ([]ApplicationListRow, error) {
	query := `SELECT DISTINCT a.id, a.job_id, a.applied_at, a.status, a.created_at,
		j.source_url, COALESCE(j.title, ''), COALESCE(j.company, ''), COALESCE(j.source_domain, '')
	 FROM job_applications a
	 JOIN jobs j ON j.id = a.job_id
	 WHERE a.user_id = $1`

	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		query += ` AND a.status = $2`
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		if f.Status != "" {
			query += ` AND (j.title ILIKE $3 OR j.company ILIKE $3)`
		} else {
			query += ` AND (j.title ILIKE $2 OR j.company ILIKE $2)`
		}
	}
	if f.SortAsc {
		query += ` ORDER BY a.applied_at ASC`
	} else {
		query += ` ORDER BY a.applied_at DESC`
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ApplicationListRow, 0)
	for rows.Next() {
		var row ApplicationListRow
		if err := rows.Scan(
			&row.ID, &row.JobID, &row.AppliedAt, &row.Status, &row.CreatedAt,
			&row.SourceURL, &row.Title, &row.Company, &row.SourceDomain,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) InsertSession(ctx context.Context, q database.Queryer, s application.InterviewSession) (application.InterviewSession, error) {
	row := q.QueryRow(ctx,
		`INSERT INTO interview_sessions (job_application_id, name, scheduled_at, sort_order, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+sessionColumns,
		s.JobApplicationID, s.Name, s.ScheduledAt, s.SortOrder, nullableText(s.Notes),
	)
	return scanSession(row)
}

func (r *PostgresApplicationRepository) GetOwnedSession(ctx context.Context, userID, appID, sessionID uuid.UUID) (application.InterviewSession, error) {
	row := r.db.QueryRow(ctx,
		`SELECT s.id, s.job_application_id, s.name, s.scheduled_at, COALESCE(s.sort_order, 0), COALESCE(s.notes, '')
		 FROM interview_sessions s
		 JOIN job_applications a ON a.id = s.job_application_id
		 WHERE s.id = $1 AND s.job_application_id = $2 AND a.user_id = $3`,
		sessionID, appID, userID,
	)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			return application.InterviewSession{}, ErrSessionNotFound
		}
		return application.InterviewSession{}, err
	}
	return s, nil
}

func (r *PostgresApplicationRepository) UpdateSession(ctx context.Context, s application.InterviewSession) error {
	n, err := r.db.Exec(ctx,
		`UPDATE interview_sessions SET name = $2, scheduled_at = $3, sort_order = $4, notes = $5 WHERE id = $1`,
		s.ID, s.Name, s.ScheduledAt, s.SortOrder, nullableText(s.Notes),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) DeleteSession(ctx context.Context, userID, appID, sessionID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`DELETE FROM interview_sessions s
		 USING job_applications a
		 WHERE s.id = $1 AND s.job_application_id = $2 AND a.id = s.job_application_id AND a.user_id = $3`,
		sessionID, appID, userID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) ListSessions(ctx context.Context, q database.Queryer, appID uuid.UUID) ([]application.InterviewSession, error) {
	if q == nil {
		q = r.db
	}
	rows, err := q.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM interview_sessions
		 WHERE job_application_id = $1
		 ORDER BY scheduled_at ASC NULLS LAST, sort_order ASC`,
		appID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.InterviewSession, 0)
	for rows.Next() {
		var s application.InterviewSession
		if err := rows.Scan(&s.ID, &s.JobApplicationID, &s.Name, &s.ScheduledAt, &s.SortOrder, &s.Notes); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) UpcomingSessions(ctx context.Context, userID uuid.UUID, from time.Time, limit int) ([]UpcomingSessionRow, error) {
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT a.id, s.id, s.name, s.scheduled_at, COALESCE(j.title, ''), COALESCE(j.company, '')
		 FROM interview_sessions s
		 JOIN job_applications a ON a.id = s.job_application_id
		 JOIN jobs j ON j.id = a.job_id
		 WHERE a.user_id = $1 AND s.scheduled_at IS NOT NULL AND s.scheduled_at >= $2
		 ORDER BY s.scheduled_at ASC
		 LIMIT $3`,
		userID, from, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UpcomingSessionRow, 0)
	for rows.Next() {
		var row UpcomingSessionRow
		if err := rows.Scan(&row.ApplicationID, &row.SessionID, &row.SessionName, &row.ScheduledAt, &row.JobTitle, &row.Company); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var a application.Application
	err := row.Scan(&a.ID, &a.UserID, &a.JobID, &a.AppliedAt, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func scanSession(row database.Row) (application.InterviewSession, error) {
	var s application.InterviewSession
	err := row.Scan(&s.ID, &s.JobApplicationID, &s.Name, &s.ScheduledAt, &s.SortOrder, &s.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return application.InterviewSession{}, ErrApplicationNotFound
		}
		return application.InterviewSession{}, err
	}
	return s, nil
}

var _ ApplicationRepository = (*PostgresApplicationRepository)(nil)
