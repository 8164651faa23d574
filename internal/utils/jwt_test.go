package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	userID := uuid.New()
	token, err := GenerateJWT(userID, "user@example.com", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "boxport", claims.Issuer)

	_, err = ValidateJWT(token + "tampered")
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	userID := uuid.New()
	token, err := GenerateRefreshToken(userID, 24)
	require.NoError(t, err)

	subject, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), subject)

	_, err = ValidateRefreshToken("garbage")
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	SetJWTSecret("unit-test-secret")

	token, err := GenerateJWT(uuid.New(), "user@example.com", -1)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
