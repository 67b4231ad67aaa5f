// Package auth provides authentication and user management.
// It supplies the actor identity consumed by the stock mutation engine;
// the engine itself never authenticates callers.
package auth

import (
	"context"
	"strings"
	"time"

	"stockroom/internal/core/apperror"
	appctx "stockroom/internal/core/context"
	"stockroom/internal/core/id"
)

// User is an operator account.
type User struct {
	ID           id.ID     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks field constraints.
func (u *User) Validate(ctx context.Context) error {
	if strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@") {
		return apperror.NewValidation("valid email is required").WithDetail("field", "email")
	}
	if strings.TrimSpace(u.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if u.Role != appctx.RoleAdmin && u.Role != appctx.RoleStaff {
		return apperror.NewValidation("invalid role").WithDetail("value", u.Role)
	}
	return nil
}

// Credentials carries a login request.
type Credentials struct {
	Email    string
	Password string
}

// Repository defines storage operations for users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, userID id.ID) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int64, error)
}
