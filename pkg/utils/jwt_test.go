package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, "cashier@example.com", "Asha")
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "cashier@example.com", claims.Email)
	assert.Equal(t, "Asha", claims.Name)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	token, err := manager.GenerateRefreshToken(userID)
	require.NoError(t, err)

	got, err := manager.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager("secret-a", time.Hour, time.Hour)
	other := NewJWTManager("secret-b", time.Hour, time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "a@b.c", "X")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, -time.Minute)

	token, err := manager.GenerateAccessToken(uuid.New(), "a@b.c", "X")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, time.Hour)

	refresh, err := manager.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	// refresh tokens carry no user claims; the access validator must not
	// yield a usable identity from one
	claims, err := manager.ValidateAccessToken(refresh)
	if err == nil {
		assert.Equal(t, uuid.Nil, claims.UserID)
	}
}
