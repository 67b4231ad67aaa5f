package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
)

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, MapError(nil))
}

func TestMapError_SQLStates(t *testing.T) {
	tests := []struct {
		name     string
		sqlstate string
		wantCode string
	}{
		{"lock wait timeout", "55P03", apperror.CodeLockTimeout},
		{"statement timeout", "57014", apperror.CodeTransaction},
		{"deadlock", "40P01", apperror.CodeTransaction},
		{"unique violation", "23505", apperror.CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{Code: tt.sqlstate, ConstraintName: "products_sku_key"}
			err := MapError(fmt.Errorf("exec: %w", pgErr))

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr.Code)

			// The driver error stays in the chain for logging.
			var unwrapped *pgconn.PgError
			assert.True(t, errors.As(err, &unwrapped))
		})
	}
}

func TestMapError_LockTimeoutIsRetryable(t *testing.T) {
	err := MapError(&pgconn.PgError{Code: "55P03"})
	assert.True(t, apperror.IsTransactionFailure(err))
}

func TestMapError_UniqueViolationCarriesConstraint(t *testing.T) {
	err := MapError(&pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "products_sku_key", appErr.Details["constraint"])
}

func TestMapError_AppErrorPassesThrough(t *testing.T) {
	orig := apperror.NewInsufficientStock("p-1", 20, 15)

	assert.Same(t, error(orig), MapError(orig))

	// Wrapped AppErrors keep their wrapping untouched too.
	wrapped := fmt.Errorf("record out: %w", orig)
	assert.Equal(t, wrapped, MapError(wrapped))
}

func TestMapError_UnknownErrorsPassThrough(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Equal(t, plain, MapError(plain))

	// SQLSTATEs outside the mutation path's contract stay raw; callers
	// wrap them as internal failures at the boundary.
	fkViolation := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(fkViolation), MapError(fkViolation))
}
