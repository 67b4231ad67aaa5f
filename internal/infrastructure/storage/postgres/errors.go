package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"stockroom/internal/core/apperror"
)

// PostgreSQL SQLSTATE codes the mutation path cares about.
const (
	sqlstateLockNotAvailable = "55P03"
	sqlstateQueryCanceled    = "57014"
	sqlstateUniqueViolation  = "23505"
	sqlstateDeadlockDetected = "40P01"
)

// MapError translates low-level pgx errors into application errors.
// Errors that are already AppError pass through untouched.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case sqlstateLockNotAvailable:
		// lock_timeout expired waiting on SELECT ... FOR UPDATE
		return apperror.NewLockTimeout(err)
	case sqlstateQueryCanceled:
		// statement_timeout fired
		return apperror.NewTransactionFailure(err)
	case sqlstateDeadlockDetected:
		return apperror.NewTransactionFailure(err)
	case sqlstateUniqueViolation:
		return apperror.NewConflict("duplicate value violates unique constraint").
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	}

	return err
}
