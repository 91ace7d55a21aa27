// Package otp issues and checks the short-lived numeric codes used for
// registration verification and password reset. Codes are four digits
// (1000-9999) and expire 30 minutes after issuance.
package otp

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"
)

const DefaultTTL = 30 * time.Minute

type Purpose string

const (
	PurposeRegistration Purpose = "registration"
	PurposeReset        Purpose = "password-reset"
)

var (
	ErrNotFound = errors.New("no matching code")
	ErrExpired  = errors.New("code expired")
	ErrMismatch = errors.New("code mismatch")
)

// Record is a live or dead code bound to one (principal, purpose) pair.
// The caller owns persistence; a nil Record means no code was ever issued
// or the last one was consumed.
type Record struct {
	Code      string
	ExpiresAt time.Time
}

// Generate returns a uniformly random four-digit code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}

// Verify checks candidate against the record at the given instant.
// Expiry is checked before the digits so that a correct but stale code
// still reports ErrExpired.
func (r *Record) Verify(candidate string, now time.Time) error {
	if r == nil || r.Code == "" {
		return ErrNotFound
	}
	if now.After(r.ExpiresAt) {
		return ErrExpired
	}
	if r.Code != candidate {
		return ErrMismatch
	}
	return nil
}
