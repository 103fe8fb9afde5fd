package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("Password1")
	require.NoError(t, err)
	assert.NotEqual(t, "Password1", hash)

	ok, err := h.Comparar(hash, "Password1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Comparar(hash, "password1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	ok, err := NewBcryptHasher(bcrypt.MinCost).Comparar("no-es-un-hash", "x")
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestNewBcryptHasher_CostOutOfRange(t *testing.T) {
	h := NewBcryptHasher(99).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
