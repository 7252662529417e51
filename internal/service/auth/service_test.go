package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohq/attendance-backend-go/internal/domain/auth"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/pkg/jwt"
)

// Refresh rejects bad tokens before touching any repository, so these
// run against a service with no database behind it.

func TestRefreshRejectsExpiredToken(t *testing.T) {
	// Negative TTL issues a refresh token that is already past exp.
	jwtService := jwt.NewJWTService("test-secret-key", "15m", "-1h")
	svc := NewAuthService(nil, nil, nil, jwtService)

	refreshToken, _, err := jwtService.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), refreshToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret-key", "15m", "24h")
	svc := NewAuthService(nil, nil, nil, jwtService)

	refreshToken, _, err := jwtService.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	jwtService.RevokeToken(refreshToken)

	_, err = svc.Refresh(context.Background(), refreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	jwtService := jwt.NewJWTService("test-secret-key", "15m", "24h")
	svc := NewAuthService(nil, nil, nil, jwtService)

	accessToken, _, err := jwtService.GenerateAccessToken("user-1", "worker@example.test", nil, user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), accessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
