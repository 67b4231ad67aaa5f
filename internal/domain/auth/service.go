package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/id"
	"stockroom/pkg/logger"
)

// Service provides authentication and user management.
type Service struct {
	repo Repository
	jwt  *JWTService
}

// NewService creates an auth service.
func NewService(repo Repository, jwt *JWTService) *Service {
	return &Service{repo: repo, jwt: jwt}
}

// LoginResult carries a successful login response.
type LoginResult struct {
	Token     string
	ExpiresAt int64
	User      *User
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, creds.Email)
	if err != nil {
		// Do not leak whether the account exists.
		return nil, apperror.NewUnauthorized("invalid email or password")
	}
	if !user.Active {
		return nil, apperror.NewUnauthorized("account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid email or password")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "email", user.Email)
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      user,
	}, nil
}

// CreateUser registers a new operator account.
func (s *Service) CreateUser(ctx context.Context, u *User, password string) error {
	if err := u.Validate(ctx); err != nil {
		return err
	}
	if len(password) < 8 {
		return apperror.NewValidation("password must be at least 8 characters").
			WithDetail("field", "password")
	}

	if existing, err := s.repo.GetByEmail(ctx, u.Email); err == nil && existing != nil {
		return apperror.NewDuplicate("user", "email", u.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternal(err)
	}
	u.PasswordHash = string(hash)

	if err := s.repo.Create(ctx, u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user created", "user_id", u.ID, "email", u.Email, "role", u.Role)
	return nil
}

// UpdateUser stores account changes; an empty password keeps the old one.
func (s *Service) UpdateUser(ctx context.Context, u *User, password string) error {
	if err := u.Validate(ctx); err != nil {
		return err
	}
	if password != "" {
		if len(password) < 8 {
			return apperror.NewValidation("password must be at least 8 characters").
				WithDetail("field", "password")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return apperror.NewInternal(err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// DeleteUser removes an account.
func (s *Service) DeleteUser(ctx context.Context, userID id.ID) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID)
}

// GetUser retrieves an account.
func (s *Service) GetUser(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// ListUsers retrieves accounts with pagination.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int64, error) {
	return s.repo.List(ctx, limit, offset)
}
