package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// CodeUniqueViolation is the SQLSTATE of a unique constraint violation.
const CodeUniqueViolation = "23505"

// UniqueViolation returns the violated constraint name when err is a unique violation.
func UniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == CodeUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
