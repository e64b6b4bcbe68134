package services

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// uniqueConstraints maps named unique constraints to the field a caller
// should be told about. Order matters: the more specific constraint
// (project key) is checked before the general one (project name), so a
// crafted duplicate violating both reports the key.
var uniqueConstraints = []struct {
	constraint string
	column     string // "table.column" token reported by sqlite
	field      string
}{
	{"uq_projects_key", "projects.key", "key"},
	{"uq_projects_name", "projects.name", "name"},
	{"uq_issues_title", "issues.title", "title"},
	{"uq_issues_project_key", "issues.project_id", "key"},
	{"uq_users_email", "users.email", "email"},
	{"uq_users_username", "users.username", "username"},
}

// translateUnique maps a store-level uniqueness violation to a
// *ConflictError naming the colliding field. Any other error is
// propagated unchanged. The caller owns the surrounding transaction;
// gorm's Transaction wrapper rolls back before the error surfaces.
func translateUnique(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return err
		}
		for _, uc := range uniqueConstraints {
			if pgErr.ConstraintName == uc.constraint {
				return &ConflictError{Field: uc.field}
			}
		}
		return &ConflictError{Field: pgErr.ConstraintName}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number != 1062 {
			return err
		}
		// MySQL 1062 messages carry the violated key name.
		for _, uc := range uniqueConstraints {
			if strings.Contains(myErr.Message, uc.constraint) {
				return &ConflictError{Field: uc.field}
			}
		}
		return err
	}

	// sqlite has no structured error type here; it reports
	// "UNIQUE constraint failed: table.column".
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		for _, uc := range uniqueConstraints {
			if strings.Contains(msg, uc.constraint) || strings.Contains(msg, uc.column) {
				return &ConflictError{Field: uc.field}
			}
		}
	}

	return err
}
