// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Role names known to the service.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// UserContext contains authenticated user information.
// It is populated by the auth middleware and consumed as the actor
// identity for stock mutations.
type UserContext struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// IsAdmin checks if the current user has the admin role.
func IsAdmin(ctx context.Context) bool {
	if u := GetUser(ctx); u != nil {
		return u.Role == RoleAdmin
	}
	return false
}
