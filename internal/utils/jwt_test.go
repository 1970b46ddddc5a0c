package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAccessToken(secret, 42, "ana", "administrador", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.True(t, tok.Exp.After(time.Now()))

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "ana", claims["usuario"])
	assert.Equal(t, "administrador", claims["rol"])
}

func TestNewAccessTokenWrongSecretFails(t *testing.T) {
	tok, err := NewAccessToken("secret-a", 1, "ana", "usuario", 5)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))
}

func TestHashPasswordClampsBadCost(t *testing.T) {
	// Cost 0 is below bcrypt's minimum; hashing must still succeed.
	hash, err := HashPassword("hunter2", 0)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2"))
}
