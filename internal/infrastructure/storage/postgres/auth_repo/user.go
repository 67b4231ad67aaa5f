// Package auth_repo provides the PostgreSQL implementation of the user
// repository.
package auth_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/internal/domain/auth"
	"stockroom/internal/infrastructure/storage/postgres"
)

const userTable = "users"

var userColumns = []string{"id", "email", "name", "password_hash", "role", "active", "created_at"}

// UserRepo implements auth.Repository.
type UserRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new user.
func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	q := r.builder.Insert(userTable).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Active, u.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", postgres.MapError(err))
	}
	return nil
}

// Update stores user changes.
func (r *UserRepo) Update(ctx context.Context, u *auth.User) error {
	q := r.builder.Update(userTable).
		Set("email", u.Email).
		Set("name", u.Name).
		Set("password_hash", u.PasswordHash).
		Set("role", u.Role).
		Set("active", u.Active).
		Where(squirrel.Eq{"id": u.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", u.ID.String())
	}
	return nil
}

// Delete removes a user.
func (r *UserRepo) Delete(ctx context.Context, userID id.ID) error {
	q := r.builder.Delete(userTable).Where(squirrel.Eq{"id": userID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", postgres.MapError(err))
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	q := r.builder.Select(userColumns...).
		From(userTable).
		Where(squirrel.Eq{"id": userID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u auth.User
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", userID.String())
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := r.builder.Select(userColumns...).
		From(userTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u auth.User
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// List retrieves users with pagination.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*auth.User, int64, error) {
	querier := r.txm.GetQuerier(ctx)

	var total int64
	if err := querier.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	q := r.builder.Select(userColumns...).
		From(userTable).
		OrderBy("created_at ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var users []*auth.User
	if err := pgxscan.Select(ctx, querier, &users, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select users: %w", err)
	}
	return users, total, nil
}

// Ensure interface compliance.
var _ auth.Repository = (*UserRepo)(nil)
