package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kwesiamoo/travelhub-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		Username: "ama",
		Role:     string(models.UserRoleAdmin),
	}
	user.ID = 42

	tokenString, err := GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := ValidateToken(tokenString)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["id"])
	assert.Equal(t, "ama", claims["username"])
	assert.Equal(t, "admin", claims["role"])
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	user := &models.User{Username: "kofi", Role: string(models.UserRoleUser)}
	user.ID = 1

	tokenString, err := GenerateToken(user)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateTokenRejectsNonHMACAlg(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := jwt.MapClaims{"id": 7, "username": "yaw", "role": "admin"}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(tokenString)
	assert.ErrorContains(t, err, "unexpected signing method")
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}
