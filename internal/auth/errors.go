package auth

import (
	"errors"

	"github.com/SynilogicTeam/kundliGen/internal/otp"
)

// Error taxonomy surfaced to the HTTP layer. OTP sentinels are shared with
// the otp package so errors.Is works across both.
var (
	ErrNotFound     = otp.ErrNotFound
	ErrExpired      = otp.ErrExpired
	ErrMismatch     = otp.ErrMismatch
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("service unavailable")
	ErrThrottled    = errors.New("resend cooldown active")
)
