package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempohq/attendance-backend-go/internal/domain/user"
)

func newTestService(t *testing.T, refreshExp string) *JWTService {
	t.Helper()
	return NewJWTService("test-secret-key", "15m", refreshExp).(*JWTService)
}

func TestValidateSSETokenRoundTrip(t *testing.T) {
	svc := newTestService(t, "24h")

	token, expiresIn, err := svc.GenerateSSEToken("emp-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", userID)
}

func TestValidateSSETokenRejectsExpired(t *testing.T) {
	svc := newTestService(t, "24h")

	// Well past the acceptable clock skew.
	_, tokenString, err := svc.tokenAuth.Encode(map[string]interface{}{
		"user_id": "emp-1",
		"type":    "sse",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(tokenString)
	assert.Error(t, err)
}

func TestValidateSSETokenRejectsAccessToken(t *testing.T) {
	svc := newTestService(t, "24h")

	accessToken, _, err := svc.GenerateAccessToken("user-1", "worker@example.test", nil, user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(accessToken)
	assert.Error(t, err)
}

func TestRevokeTokenPrunesExpiredEntries(t *testing.T) {
	// Refresh TTL of 1ns: any earlier entry is stale by the next call.
	svc := newTestService(t, "1ns")

	svc.RevokeToken("stale-token")
	assert.True(t, svc.IsTokenRevoked("stale-token"))

	svc.RevokeToken("fresh-token")
	assert.False(t, svc.IsTokenRevoked("stale-token"))
	assert.True(t, svc.IsTokenRevoked("fresh-token"))
}
