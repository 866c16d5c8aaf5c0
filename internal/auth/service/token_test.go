package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/infinito/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "b8a3c2267dc85f855dea9b46b452bf20"

func TestNewTokenGenerator(t *testing.T) {
	tg := NewTokenGenerator("secret", time.Hour)

	assert.NotNil(t, tg)
	assert.Equal(t, "secret", tg.secret)
	assert.Equal(t, time.Hour, tg.AccessTokenExpiry())
}

func TestTokenGenerator_RoundTrip(t *testing.T) {
	tg := NewTokenGenerator(testSecret, time.Hour)

	tests := []struct {
		name   string
		userID int
		role   models.Role
	}{
		{name: "student", userID: 7, role: models.RoleStudent},
		{name: "admin", userID: 1, role: models.RoleAdmin},
		{name: "user id zero", userID: 0, role: models.RoleStudent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tg.GenerateAccessToken(tt.userID, tt.role)
			require.NoError(t, err)

			userID, role, err := tg.ValidateAccessToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, userID)
			assert.Equal(t, tt.role, role)
		})
	}
}

func TestTokenGenerator_ValidateAccessToken_Errors(t *testing.T) {
	tg := NewTokenGenerator(testSecret, time.Hour)

	sign := func(claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name          string
		token         string
		errorContains string
	}{
		{name: "garbage", token: "not-a-token", errorContains: "failed to parse token"},
		{name: "wrong secret", token: sign(jwt.MapClaims{"user_id": 1, "role": "admin", "type": "access", "exp": future}, "other"), errorContains: "failed to parse token"},
		{name: "expired", token: sign(jwt.MapClaims{"user_id": 1, "role": "admin", "type": "access", "exp": time.Now().Add(-time.Minute).Unix()}, testSecret), errorContains: "failed to parse token"},
		{name: "refresh type", token: sign(jwt.MapClaims{"user_id": 1, "role": "admin", "type": "refresh", "exp": future}, testSecret), errorContains: "not an access token"},
		{name: "missing user id", token: sign(jwt.MapClaims{"role": "admin", "type": "access", "exp": future}, testSecret), errorContains: "user_id not found"},
		{name: "unknown role", token: sign(jwt.MapClaims{"user_id": 1, "role": "root", "type": "access", "exp": future}, testSecret), errorContains: "role not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tg.ValidateAccessToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}
