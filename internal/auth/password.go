package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher salts+hashes passwords and compares them against stored hashes.
type Hasher interface {
	Hash(password string) (string, error)
	Comparar(hash, password string) (bool, error)
}

type bcryptHasher struct{ cost int }

// NewBcryptHasher returns a Hasher; cost outside bcrypt's range falls back to the default.
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Comparar reports a mismatch as (false, nil); only malformed hashes are errors.
func (h *bcryptHasher) Comparar(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
