package repository

import (
	"context"
	"errors"

	"jobtrack/internal/database"
	"jobtrack/internal/domain/job"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrJobNotFound = errors.New("job not found")

	// ErrJobURLExists signals a concurrent insert for the same source_url;
	// callers re-resolve by lookup instead of failing.
	ErrJobURLExists = errors.New("job source url already exists")
)

// JobRepository methods take a Queryer so the registry can run inside the
// same transaction as the application insert.
type JobRepository interface {
	GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (job.Job, error)
	GetBySourceURL(ctx context.Context, q database.Queryer, sourceURL string) (job.Job, error)
	Insert(ctx context.Context, q database.Queryer, j job.Job) (job.Job, error)
	UpdateFields(ctx context.Context, q database.Queryer, id uuid.UUID, f job.Fields) error
}

const jobColumns = `id, source_url, COALESCE(title, ''), COALESCE(company, ''),
	COALESCE(description, ''), COALESCE(location, ''), COALESCE(source_domain, ''), created_at`

type PostgresJobRepository struct{}

func NewPostgresJobRepository() *PostgresJobRepository {
	return &PostgresJobRepository{}
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, q database.Queryer, id uuid.UUID) (job.Job, error) {
	row := q.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (r *PostgresJobRepository) GetBySourceURL(ctx context.Context, q database.Queryer, sourceURL string) (job.Job, error) {
	row := q.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE source_url = $1`, sourceURL)
	return scanJob(row)
}

func (r *PostgresJobRepository) Insert(ctx context.Context, q database.Queryer, j job.Job) (job.Job, error) {
	row := q.QueryRow(ctx,
		`INSERT INTO jobs (source_url, title, company, description, location, source_domain)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+jobColumns,
		j.SourceURL,
		nullableText(j.Title),
		nullableText(j.Company),
		nullableText(j.Description),
		nullableText(j.Location),
		nullableText(j.SourceDomain),
	)
	out, err := scanJob(row)
	if err != nil {
		if isUniqueViolation(err, "jobs_source_url_key") {
			return job.Job{}, ErrJobURLExists
		}
		return job.Job{}, err
	}
	return out, nil
}

// UpdateFields overwrites exactly the fields present in f; absent fields are
// left untouched (last caller to supply a field wins).
func (r *PostgresJobRepository) UpdateFields(ctx context.Context, q database.Queryer, id uuid.UUID, f job.Fields) error {
	if f.Empty() {
		return nil
	}

	n, err := q.Exec(ctx,
		`UPDATE jobs SET
			title = CASE WHEN $2::bool THEN $3 ELSE title END,
			company = CASE WHEN $4::bool THEN $5 ELSE company END,
			description = CASE WHEN $6::bool THEN $7 ELSE description END,
			location = CASE WHEN $8::bool THEN $9 ELSE location END,
			source_domain = CASE WHEN $10::bool THEN $11 ELSE source_domain END
		 WHERE id = $1`,
		id,
		f.Title != nil, textOrNil(f.Title),
		f.Company != nil, textOrNil(f.Company),
		f.Description != nil, textOrNil(f.Description),
		f.Location != nil, textOrNil(f.Location),
		f.SourceDomain != nil, textOrNil(f.SourceDomain),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrJobNotFound
	}
	return nil
}

func textOrNil(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	err := row.Scan(&j.ID, &j.SourceURL, &j.Title, &j.Company, &j.Description, &j.Location, &j.SourceDomain, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return job.Job{}, ErrJobNotFound
		}
		return job.Job{}, err
	}
	return j, nil
}

var _ JobRepository = (*PostgresJobRepository)(nil)
