package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("longenough"))
	assert.ErrorIs(t, ValidatePassword("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword(""), ErrPasswordTooShort)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter22!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22!", hash)

	assert.True(t, VerifyPassword(hash, "hunter22!"))
	assert.False(t, VerifyPassword(hash, "hunter23!"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter22!"))
}
