package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	tok, exp, err := m.GenerateAccessToken(42, "admin", "sid-1")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := m.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	other := NewJWTManager("other", time.Minute)
	tok, _, err := other.GenerateAccessToken(1, "user", "")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(tok)
	assert.Error(t, err)

	expired := NewJWTManager("secret", -time.Minute)
	tok, _, err = expired.GenerateAccessToken(1, "user", "")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(tok)
	assert.Error(t, err)

	anon, _, err := m.GenerateAccessToken(0, "user", "")
	require.NoError(t, err)
	_, err = m.ParseAccessToken(anon)
	assert.Error(t, err)
}
