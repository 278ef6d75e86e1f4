package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, VerifyPassword(hash, "correct horse"))
	assert.Error(t, VerifyPassword(hash, "wrong horse"))
}

func TestCheckPassword(t *testing.T) {
	assert.ErrorIs(t, CheckPassword("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, CheckPassword(strings.Repeat("x", 73)), ErrPasswordTooLong)
	assert.NoError(t, CheckPassword("long enough"))
}
