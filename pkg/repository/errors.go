package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes translated by Errors.Map.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// Errors names the domain errors that database failures translate to.
// A nil field leaves the matching failure unchanged.
type Errors struct {
	NotFound   error
	Duplicate  error
	Constraint error
}

// Map translates err: sql.ErrNoRows becomes NotFound, a unique violation
// becomes Duplicate, and a check violation becomes Constraint wrapped with
// the constraint name. Other errors are returned unchanged.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && e.NotFound != nil {
		return e.NotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgUniqueViolation && e.Duplicate != nil:
		return e.Duplicate
	case pgErr.Code == pgCheckViolation && e.Constraint != nil:
		return fmt.Errorf("%w: %s", e.Constraint, pgErr.ConstraintName)
	}
	return err
}
