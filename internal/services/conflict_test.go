package services

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateUnique_NilAndUnrelated(t *testing.T) {
	if err := translateUnique(nil); err != nil {
		t.Errorf("nil should pass through, got %v", err)
	}

	unrelated := errors.New("connection reset")
	if err := translateUnique(unrelated); !errors.Is(err, unrelated) {
		t.Errorf("unrelated error should pass through, got %v", err)
	}
}

func TestTranslateUnique_Postgres(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		field      string
	}{
		{"project key", "uq_projects_key", "key"},
		{"project name", "uq_projects_name", "name"},
		{"issue title", "uq_issues_title", "title"},
		{"issue sequence number", "uq_issues_project_key", "key"},
		{"user email", "uq_users_email", "email"},
		{"user username", "uq_users_username", "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateUnique(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})
			var conflict *ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("expected ConflictError, got %v", err)
			}
			if conflict.Field != tt.field {
				t.Errorf("field = %q, expected %q", conflict.Field, tt.field)
			}
		})
	}
}

func TestTranslateUnique_PostgresNonUniqueCode(t *testing.T) {
	original := &pgconn.PgError{Code: "23503", ConstraintName: "fk_issues_project"}
	err := translateUnique(original)
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		t.Fatalf("foreign key violation must not become a conflict: %v", err)
	}
	if !errors.Is(err, original) {
		t.Errorf("expected original error back, got %v", err)
	}
}

func TestTranslateUnique_MySQL(t *testing.T) {
	err := translateUnique(&mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'a@b.c' for key 'users.uq_users_email'",
	})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Field != "email" {
		t.Errorf("field = %q, expected email", conflict.Field)
	}

	other := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	if got := translateUnique(other); !errors.Is(got, other) {
		t.Errorf("non-1062 error should pass through, got %v", got)
	}
}

func TestTranslateUnique_SQLite(t *testing.T) {
	err := translateUnique(errors.New("UNIQUE constraint failed: projects.key"))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Field != "key" {
		t.Errorf("field = %q, expected key", conflict.Field)
	}

	// Composite index violations name every member column.
	err = translateUnique(errors.New("UNIQUE constraint failed: issues.project_id, issues.key"))
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Field != "key" {
		t.Errorf("composite field = %q, expected key", conflict.Field)
	}
}

func TestTranslateUnique_KeyBeforeName(t *testing.T) {
	// When a message somehow names both project constraints, the key
	// constraint wins the tie-break.
	err := translateUnique(errors.New(
		"UNIQUE constraint failed: projects.key, projects.name"))
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Field != "key" {
		t.Errorf("field = %q, expected key to win over name", conflict.Field)
	}
}
