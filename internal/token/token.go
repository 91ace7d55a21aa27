// Package token mints and verifies the signed bearer tokens that prove an
// authenticated principal. Tokens are HS256 JWTs valid for 30 days.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTTL = 30 * 24 * time.Hour

const (
	KindUser  = "user"
	KindAdmin = "admin"
)

var ErrInvalid = errors.New("invalid token")

type Claims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

func Mint(subject uuid.UUID, kind string, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Verify checks signature and expiry. Any failure, including an unsigned
// or mis-signed token, comes back as ErrInvalid.
func Verify(raw string, secret string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalid
	}
	return claims, nil
}
