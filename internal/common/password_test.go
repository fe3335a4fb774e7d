package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Password123")
	require.NoError(t, err)
	require.NotEqual(t, "Password123", hash)

	assert.NoError(t, CheckPassword("Password123", hash))
	assert.Error(t, CheckPassword("wrong", hash))
}

func TestHashPassword_DistinctSalts(t *testing.T) {
	a, err := HashPassword("Password123")
	require.NoError(t, err)
	b, err := HashPassword("Password123")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
