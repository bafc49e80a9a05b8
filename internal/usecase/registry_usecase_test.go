package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobtrack/internal/domain/job"
	"jobtrack/internal/repository"

	"github.com/google/uuid"
)

func strptr(s string) *string { return &s }

func TestJobRegistryResolveEmptyURL(t *testing.T) {
	registry := NewJobRegistry(newMockJobRepo())

	_, err := registry.Resolve(context.Background(), nil, ResolveJobInput{SourceURL: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestJobRegistryResolveCreatesNewJob(t *testing.T) {
	jobs := newMockJobRepo()
	registry := NewJobRegistry(jobs)

	got, err := registry.Resolve(context.Background(), nil, ResolveJobInput{
		SourceURL: "https://example.com/jobs/1",
		Fields: job.Fields{
			Title:   strptr("Backend Engineer"),
			Company: strptr("Acme"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID == uuid.Nil {
		t.Fatalf("expected a generated job id")
	}
	if got.Title != "Backend Engineer" || got.Company != "Acme" {
		t.Fatalf("unexpected job fields: %+v", got)
	}
	if len(jobs.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(jobs.inserted))
	}
}

func TestJobRegistryResolveReturnsExistingJob(t *testing.T) {
	jobs := newMockJobRepo()
	existing := job.Job{
		ID:        uuid.New(),
		SourceURL: "https://example.com/jobs/1",
		Title:     "Original Title",
		CreatedAt: time.Now().UTC(),
	}
	jobs.add(existing)
	registry := NewJobRegistry(jobs)

	got, err := registry.Resolve(context.Background(), nil, ResolveJobInput{SourceURL: existing.SourceURL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != existing.ID {
		t.Fatalf("expected existing job %s, got %s", existing.ID, got.ID)
	}
	if got.Title != "Original Title" {
		t.Fatalf("title should be untouched without provided fields, got %q", got.Title)
	}
	if len(jobs.inserted) != 0 {
		t.Fatalf("expected no insert for an existing URL")
	}
}

func TestJobRegistryResolveMergesProvidedFields(t *testing.T) {
	jobs := newMockJobRepo()
	existing := job.Job{
		ID:        uuid.New(),
		SourceURL: "https://example.com/jobs/1",
		Title:     "Old Title",
		Company:   "Old Co",
		Location:  "Remote",
	}
	jobs.add(existing)
	registry := NewJobRegistry(jobs)

	got, err := registry.Resolve(context.Background(), nil, ResolveJobInput{
		SourceURL: existing.SourceURL,
		Fields:    job.Fields{Title: strptr("New Title")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "New Title" {
		t.Fatalf("expected merged title, got %q", got.Title)
	}
	if got.Company != "Old Co" || got.Location != "Remote" {
		t.Fatalf("fields without a provided value must stay, got %+v", got)
	}
	if len(jobs.updates) != 1 {
		t.Fatalf("expected 1 field update, got %d", len(jobs.updates))
	}
	if jobs.updates[0].id != existing.ID {
		t.Fatalf("update targeted wrong job %s", jobs.updates[0].id)
	}
	if jobs.updates[0].fields.Company != nil {
		t.Fatalf("unprovided field must not be written")
	}
}

func TestJobRegistryResolveConcurrentCreateRace(t *testing.T) {
	jobs := newMockJobRepo()
	winner := job.Job{
		ID:        uuid.New(),
		SourceURL: "https://example.com/jobs/1",
		Title:     "Winner Title",
	}
	jobs.insertErr = repository.ErrJobURLExists
	jobs.raceJob = &winner
	registry := NewJobRegistry(jobs)

	got, err := registry.Resolve(context.Background(), nil, ResolveJobInput{
		SourceURL: winner.SourceURL,
		Fields:    job.Fields{Company: strptr("Acme")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != winner.ID {
		t.Fatalf("expected the winner's row %s, got %s", winner.ID, got.ID)
	}
	if got.Company != "Acme" {
		t.Fatalf("expected fields merged into the winner's row, got %+v", got)
	}
	if got.Title != "Winner Title" {
		t.Fatalf("winner's unprovided fields must stay, got %q", got.Title)
	}
}
