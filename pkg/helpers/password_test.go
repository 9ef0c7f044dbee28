package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, PasswordMatches(hash, "password123"))
	assert.False(t, PasswordMatches(hash, "password124"))

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}
