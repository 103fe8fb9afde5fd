package auth

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	oneTimeLen     = 16
	oneTimeLetters = "abcdefghijklmnopqrstuvwxyz0123456789"
	// bytes at or above this are discarded so every letter is equally likely
	oneTimeCorte = 256 - 256%len(oneTimeLetters)
)

// TokenGenerator produces one-time tokens for email confirmation and password resets.
type TokenGenerator func() (string, error)

// NuevoTokenUnico returns a random lowercase alphanumeric string, safe inside URLs.
func NuevoTokenUnico() (string, error) {
	return tokenDesde(rand.Reader)
}

func tokenDesde(r io.Reader) (string, error) {
	out := make([]byte, 0, oneTimeLen)
	buf := make([]byte, oneTimeLen)
	for len(out) < oneTimeLen {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("token unico: %w", err)
		}
		for _, b := range buf {
			if int(b) >= oneTimeCorte {
				continue
			}
			out = append(out, oneTimeLetters[int(b)%len(oneTimeLetters)])
			if len(out) == oneTimeLen {
				break
			}
		}
	}
	return string(out), nil
}
