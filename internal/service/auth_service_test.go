package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"khatapos/internal/config"
	"khatapos/internal/dto"
)

func authTestConfig(t *testing.T, pin string) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	return &config.Config{
		OwnerPINHash:       string(hash),
		JWTSecret:          "test-secret",
		JWTExpirationHours: 2,
	}
}

func TestLoginIssuesOwnerToken(t *testing.T) {
	svc := NewAuthService(authTestConfig(t, "4321"))

	resp, err := svc.Login(dto.LoginRequest{PIN: "4321"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 2*3600, resp.ExpiresIn)

	token, err := jwt.ParseWithClaims(resp.AccessToken, &jwt.RegisteredClaims{}, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	claims := token.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "owner", claims.Subject)
}

func TestLoginRejectsWrongPIN(t *testing.T) {
	svc := NewAuthService(authTestConfig(t, "4321"))

	_, err := svc.Login(dto.LoginRequest{PIN: "0000"})
	assert.ErrorIs(t, err, ErrInvalidPIN)
}

func TestLoginFailsWithoutConfiguredHash(t *testing.T) {
	svc := NewAuthService(&config.Config{JWTSecret: "s"})

	_, err := svc.Login(dto.LoginRequest{PIN: "4321"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidPIN)
}
