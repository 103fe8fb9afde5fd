// Package auth holds the credential primitives shared by the middleware and the
// account services: bearer token issuance/verification, password hashing,
// one-time tokens and the authenticated Principal.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenInvalido covers every verification failure (bad signature, expired,
// malformed claims). Callers never see which one happened.
var ErrTokenInvalido = errors.New("token invalido")

// Claims are the custom claims embedded in every access token.
type Claims struct {
	ID  string `json:"id"`
	Rol string `json:"rol"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens.
type TokenIssuer struct {
	secret   []byte
	duracion time.Duration
	now      func() time.Time
}

func NewTokenIssuer(secret string, duracion time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), duracion: duracion, now: time.Now}
}

// Emitir returns a signed token binding the account id and its role.
func (t *TokenIssuer) Emitir(id uuid.UUID, rol string) (string, error) {
	now := t.now()
	claims := Claims{
		ID:  id.String(),
		Rol: rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.duracion)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verificar decodes a token string into the account id and role.
func (t *TokenIssuer) Verificar(tokenStr string) (uuid.UUID, string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return uuid.Nil, "", ErrTokenInvalido
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil || claims.Rol == "" {
		return uuid.Nil, "", ErrTokenInvalido
	}
	return id, claims.Rol, nil
}
