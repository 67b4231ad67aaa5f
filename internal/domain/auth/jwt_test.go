package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "stockroom/internal/core/context"
	"stockroom/internal/core/id"
)

func testUser() *User {
	return &User{
		ID:     id.New(),
		Email:  "ops@example.com",
		Name:   "Ops Person",
		Role:   appctx.RoleStaff,
		Active: true,
	}
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	u := testUser()

	token, expiresAt, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, u.Name, claims.Name)
	assert.Equal(t, appctx.RoleStaff, claims.Role)
	assert.Equal(t, "stockroom", claims.Issuer)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}

func TestJWT_ExpiredTokenRejected(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestJWT_GarbageTokenRejected(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
}
