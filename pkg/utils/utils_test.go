package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "cactus-admin-api", time.Hour)

	token, expires, err := m.GenerateAccessToken("admin", RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", "cactus-admin-api", time.Hour)
	token, _, err := m.GenerateAccessToken("admin", RoleAdmin)
	require.NoError(t, err)

	t.Run("wrong_secret", func(t *testing.T) {
		_, err := NewJWTManager("other", "cactus-admin-api", time.Hour).ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		_, err := NewJWTManager("secret", "someone-else", time.Hour).ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTManager("secret", "cactus-admin-api", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateAccessToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("cactus-admin")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("cactus-admin", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
