package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestNullableText(t *testing.T) {
	if got := nullableText("  "); got != nil {
		t.Fatalf("blank text must map to NULL, got %v", got)
	}
	if got := nullableText(" hello "); got != "hello" {
		t.Fatalf("expected trimmed text, got %v", got)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "jobs_source_url_key"}

	if !isUniqueViolation(uniqueErr, "jobs_source_url_key") {
		t.Fatalf("expected a match on the named constraint")
	}
	if !isUniqueViolation(uniqueErr, "") {
		t.Fatalf("empty constraint matches any unique violation")
	}
	if isUniqueViolation(uniqueErr, "other_constraint") {
		t.Fatalf("must not match a different constraint")
	}
	if isUniqueViolation(fmt.Errorf("wrapped: %w", uniqueErr), "jobs_source_url_key") != true {
		t.Fatalf("wrapped pg errors must still match")
	}

	fkErr := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
	if isUniqueViolation(fkErr, "") {
		t.Fatalf("a foreign key violation is not a unique violation")
	}
	if isUniqueViolation(errors.New("plain"), "") {
		t.Fatalf("plain errors are not unique violations")
	}
}
