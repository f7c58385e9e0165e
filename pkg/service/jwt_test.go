package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "zayavka-portal/pkg/errors"
)

func newTestJWTService() JWTService {
	return NewJWTService("test-secret", time.Hour, 24*time.Hour, zap.NewNop())
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestJWTService()

	access, refresh, err := svc.GenerateTokens(42, "admin")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.False(t, claims.IsRefreshToken, "access-токен не должен быть помечен как refresh")

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateToken("не.токен.вовсе")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	other := NewJWTService("another-secret", time.Hour, 24*time.Hour, zap.NewNop())
	access, _, err := other.GenerateTokens(1, "employee")
	require.NoError(t, err)

	_, err = newTestJWTService().ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "токен с чужой подписью должен отклоняться")
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, -time.Minute, zap.NewNop())
	access, _, err := svc.GenerateTokens(1, "employee")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.Error(t, err, "просроченный токен должен отклоняться")
}
