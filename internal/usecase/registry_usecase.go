package usecase

import (
	"context"
	"errors"
	"strings"

	"jobtrack/internal/database"
	"jobtrack/internal/domain/job"
	"jobtrack/internal/repository"
)

type ResolveJobInput struct {
	SourceURL string
	Fields    job.Fields
}

// JobResolver is the find-or-create contract for canonical Job rows.
type JobResolver interface {
	Resolve(ctx context.Context, q database.Queryer, in ResolveJobInput) (job.Job, error)
}

// JobRegistry deduplicates postings by source URL. It is a dedup cache, not
// a refresh mechanism: nothing is ever re-fetched, fields only change when a
// caller supplies them.
type JobRegistry struct {
	jobs repository.JobRepository
}

func NewJobRegistry(jobs repository.JobRepository) *JobRegistry {
	return &JobRegistry{jobs: jobs}
}

func (r *JobRegistry) Resolve(ctx context.Context, q database.Queryer, in ResolveJobInput) (job.Job, error) {
	sourceURL := strings.TrimSpace(in.SourceURL)
	if sourceURL == "" {
		return job.Job{}, ErrInvalidInput
	}

	existing, err := r.jobs.GetBySourceURL(ctx, q, sourceURL)
	if err == nil {
		return r.merge(ctx, q, existing, in.Fields)
	}
	if !errors.Is(err, repository.ErrJobNotFound) {
		return job.Job{}, err
	}

	created, err := r.jobs.Insert(ctx, q, job.Job{
		SourceURL:    sourceURL,
		Title:        deref(in.Fields.Title),
		Company:      deref(in.Fields.Company),
		Description:  deref(in.Fields.Description),
		Location:     deref(in.Fields.Location),
		SourceDomain: deref(in.Fields.SourceDomain),
	})
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, repository.ErrJobURLExists) {
		return job.Job{}, err
	}

	// Lost a concurrent create for the same URL; the row exists now, so the
	// winner's row becomes the canonical one and our fields merge into it.
	existing, err = r.jobs.GetBySourceURL(ctx, q, sourceURL)
	if err != nil {
		return job.Job{}, err
	}
	return r.merge(ctx, q, existing, in.Fields)
}

// merge overwrites exactly the provided fields, last writer wins, and
// returns the row as it stands after the write.
func (r *JobRegistry) merge(ctx context.Context, q database.Queryer, j job.Job, f job.Fields) (job.Job, error) {
	if f.Empty() {
		return j, nil
	}
	if err := r.jobs.UpdateFields(ctx, q, j.ID, f); err != nil {
		return job.Job{}, err
	}

	if f.Title != nil {
		j.Title = *f.Title
	}
	if f.Company != nil {
		j.Company = *f.Company
	}
	if f.Description != nil {
		j.Description = *f.Description
	}
	if f.Location != nil {
		j.Location = *f.Location
	}
	if f.SourceDomain != nil {
		j.SourceDomain = *f.SourceDomain
	}
	return j, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

var _ JobResolver = (*JobRegistry)(nil)
