package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cheap parameters keep the tests fast
var testParams = HashParams{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}

func TestHashPassword_NeverPlaintext(t *testing.T) {
	hash, err := HashPassword("hunter2", testParams)
	require.NoError(t, err)

	assert.NotEqual(t, "hunter2", hash)
	assert.NotContains(t, hash, "hunter2")
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	a, err := HashPassword("same", testParams)
	require.NoError(t, err)
	b, err := HashPassword("same", testParams)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", testParams)
	require.NoError(t, err)

	ok, err := VerifyPassword(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "correct horsE")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_DefaultParams(t *testing.T) {
	hash, err := HashPassword("pw", DefaultHashParams)
	require.NoError(t, err)

	ok, err := VerifyPassword(hash, "pw")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	cases := []string{
		"",
		"hunter2",
		"$2a$10$abcdefghijklmnopqrstuv",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdHNhbHQ$a2V5",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdHNhbHQ$a2V5",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$a2V5",
	}
	for _, c := range cases {
		ok, err := VerifyPassword(c, "hunter2")
		assert.ErrorIs(t, err, ErrMalformedHash, c)
		assert.False(t, ok)
	}
}
