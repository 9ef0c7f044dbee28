package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/blood-donation-service/pkg/apperror"
)

// errNoRows lets Exec paths that matched nothing share the ErrNoRows mapping.
var errNoRows = pgx.ErrNoRows

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// translate maps driver errors onto apperror kinds. notFound is the message used
// for pgx.ErrNoRows and foreign key violations.
func translate(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(notFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.Wrap(err, apperror.KindConflict, "already exists")
		case pgForeignKeyViolation:
			return apperror.Wrap(err, apperror.KindNotFound, notFound)
		case pgCheckViolation:
			return apperror.Wrap(err, apperror.KindValidation, "value out of range")
		}
	}
	return apperror.Persistence(err)
}
