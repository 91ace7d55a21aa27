// Package auth composes the credential, OTP, throttle and token components
// into the user-facing account flows: registration verification, login,
// password reset and change, and the admin session lifecycle.
package auth

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SynilogicTeam/kundliGen/internal/credentials"
	"github.com/SynilogicTeam/kundliGen/internal/email"
	"github.com/SynilogicTeam/kundliGen/internal/models"
	"github.com/SynilogicTeam/kundliGen/internal/otp"
	"github.com/SynilogicTeam/kundliGen/internal/throttle"
	"github.com/SynilogicTeam/kundliGen/internal/token"
)

// UserStore is the slice of the datastore the lifecycle flows need.
// Update takes column/value pairs so a plain field update can never
// rehash a password or clobber unrelated state.
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
	FindByEmailOrPhone(email string, phone string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	Create(u *models.User) error
	Update(id uuid.UUID, fields map[string]interface{}) error
	Delete(id uuid.UUID) error
}

type AdminStore interface {
	FindByEmail(email string) (*models.Admin, error)
	FindByID(id uuid.UUID) (*models.Admin, error)
	Update(id uuid.UUID, fields map[string]interface{}) error
}

type Mailer interface {
	Send(to string, subject string, htmlBody string) error
}

// ConfigProvider hands out the application config document (company name,
// SMTP overrides). Injected so the service holds no global state.
type ConfigProvider interface {
	Get() (*models.AppConfig, error)
}

type Service struct {
	Users    UserStore
	Admins   AdminStore
	Mailer   Mailer
	Config   ConfigProvider
	Cooldown throttle.Cooldown

	Secret   string
	OTPTTL   time.Duration
	TokenTTL time.Duration

	now func() time.Time
}

type Deps struct {
	Users    UserStore
	Admins   AdminStore
	Mailer   Mailer
	Config   ConfigProvider
	Cooldown throttle.Cooldown
	Secret   string
	OTPTTL   time.Duration
	TokenTTL time.Duration
}

func New(d Deps) *Service {
	s := &Service{
		Users:    d.Users,
		Admins:   d.Admins,
		Mailer:   d.Mailer,
		Config:   d.Config,
		Cooldown: d.Cooldown,
		Secret:   d.Secret,
		OTPTTL:   d.OTPTTL,
		TokenTTL: d.TokenTTL,
		now:      time.Now,
	}
	if s.OTPTTL <= 0 {
		s.OTPTTL = otp.DefaultTTL
	}
	if s.TokenTTL <= 0 {
		s.TokenTTL = token.DefaultTTL
	}
	return s
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func (s *Service) otpMinutes() int {
	return int(s.OTPTTL / time.Minute)
}

func (s *Service) companyName() string {
	cfg, err := s.Config.Get()
	if err != nil || cfg.CompanyName == "" {
		return "KundliGen"
	}
	return cfg.CompanyName
}

// Register creates an unverified account and emails the verification code.
// If the email cannot be delivered the account is deleted again so a failed
// delivery never leaves an orphaned, unusable registration behind.
func (s *Service) Register(ctx context.Context, name, emailAddr, phone, password string) (*models.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	phone = strings.TrimSpace(phone)

	if existing, err := s.Users.FindByEmailOrPhone(emailAddr, phone); err == nil && existing != nil {
		return nil, ErrConflict
	}

	code, err := otp.Generate()
	if err != nil {
		return nil, err
	}
	hash, err := credentials.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expires := now.Add(s.OTPTTL)
	user := &models.User{
		Name:                   strings.TrimSpace(name),
		Email:                  emailAddr,
		PasswordHash:           hash,
		IsActive:               true,
		RegistrationOTP:        &code,
		RegistrationOTPExpires: &expires,
	}
	if phone != "" {
		user.Phone = &phone
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}

	s.markIssued(ctx, otp.PurposeRegistration, emailAddr)

	subject, body := email.VerificationMessage(s.companyName(), code, s.otpMinutes())
	if err := s.Mailer.Send(emailAddr, subject, body); err != nil {
		log.Printf("verification email to %s failed, rolling back registration: %v", emailAddr, err)
		if delErr := s.Users.Delete(user.ID); delErr != nil {
			log.Printf("registration rollback for %s failed: %v", emailAddr, delErr)
		}
		return nil, ErrUnavailable
	}

	return user, nil
}

// VerifyRegistrationOTP consumes the code atomically with a successful
// check, marks the account verified and returns a session token.
func (s *Service) VerifyRegistrationOTP(ctx context.Context, emailAddr, code string) (*models.User, string, error) {
	user, err := s.Users.FindByEmail(normalizeEmail(emailAddr))
	if err != nil {
		return nil, "", err
	}

	if err := registrationRecord(user).Verify(code, s.now()); err != nil {
		return nil, "", err
	}

	if err := s.Users.Update(user.ID, map[string]interface{}{
		"is_verified":              true,
		"registration_otp":         nil,
		"registration_otp_expires": nil,
	}); err != nil {
		return nil, "", err
	}
	user.IsVerified = true
	user.RegistrationOTP = nil
	user.RegistrationOTPExpires = nil

	t, err := token.Mint(user.ID, token.KindUser, s.Secret, s.TokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, t, nil
}

func (s *Service) ResendRegistrationOTP(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	user, err := s.Users.FindByEmail(emailAddr)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrConflict
	}

	if err := s.checkCooldown(ctx, otp.PurposeRegistration, emailAddr); err != nil {
		return err
	}

	code, _, err := s.storeCode(user.ID, "registration_otp", "registration_otp_expires")
	if err != nil {
		return err
	}

	subject, body := email.ResendVerificationMessage(s.companyName(), code, s.otpMinutes())
	if err := s.Mailer.Send(emailAddr, subject, body); err != nil {
		log.Printf("verification resend to %s failed: %v", emailAddr, err)
		return ErrUnavailable
	}
	return nil
}

// Login requires a verified, active account. Regular users get a stateless
// token; nothing is persisted server-side.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*models.User, string, error) {
	user, err := s.Users.FindByEmail(normalizeEmail(emailAddr))
	if err != nil {
		return nil, "", ErrUnauthorized
	}
	if !credentials.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrUnauthorized
	}
	if !user.IsVerified || !user.IsActive {
		return nil, "", ErrUnauthorized
	}

	t, err := token.Mint(user.ID, token.KindUser, s.Secret, s.TokenTTL)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	if err := s.Users.Update(user.ID, map[string]interface{}{"last_login": now}); err != nil {
		log.Printf("last-login update for %s failed: %v", user.Email, err)
	}
	user.LastLogin = &now

	return user, t, nil
}

// ForgotPassword issues a reset code. Nothing is rolled back on delivery
// failure; the previous live code was already overwritten and the caller
// simply retries.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	user, err := s.Users.FindByEmail(emailAddr)
	if err != nil {
		return err
	}

	code, _, err := s.storeCode(user.ID, "reset_otp", "reset_otp_expires")
	if err != nil {
		return err
	}
	s.markIssued(ctx, otp.PurposeReset, emailAddr)

	subject, body := email.ResetMessage(s.companyName(), code, s.otpMinutes())
	if err := s.Mailer.Send(emailAddr, subject, body); err != nil {
		log.Printf("reset email to %s failed: %v", emailAddr, err)
		return ErrUnavailable
	}
	return nil
}

// VerifyResetOTP checks the code without consuming it. The same still-live
// code must be presented again to ResetPassword, which is the step that
// consumes it.
func (s *Service) VerifyResetOTP(ctx context.Context, emailAddr, code string) error {
	user, err := s.Users.FindByEmail(normalizeEmail(emailAddr))
	if err != nil {
		return err
	}
	return resetRecord(user).Verify(code, s.now())
}

// ResetPassword re-verifies the code even when VerifyResetOTP already
// passed: the code stays live between the two steps, so skipping the check
// here would let a caller reset with a code that was never right.
func (s *Service) ResetPassword(ctx context.Context, emailAddr, code, newPassword string) error {
	user, err := s.Users.FindByEmail(normalizeEmail(emailAddr))
	if err != nil {
		return err
	}
	if err := resetRecord(user).Verify(code, s.now()); err != nil {
		return err
	}

	hash, err := credentials.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.Update(user.ID, map[string]interface{}{
		"password_hash":     hash,
		"reset_otp":         nil,
		"reset_otp_expires": nil,
	})
}

func (s *Service) ResendResetOTP(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	user, err := s.Users.FindByEmail(emailAddr)
	if err != nil {
		return err
	}

	if err := s.checkCooldown(ctx, otp.PurposeReset, emailAddr); err != nil {
		return err
	}

	code, _, err := s.storeCode(user.ID, "reset_otp", "reset_otp_expires")
	if err != nil {
		return err
	}

	subject, body := email.ResendResetMessage(s.companyName(), code, s.otpMinutes())
	if err := s.Mailer.Send(emailAddr, subject, body); err != nil {
		log.Printf("reset resend to %s failed: %v", emailAddr, err)
		return ErrUnavailable
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		return err
	}
	if !credentials.CheckPassword(user.PasswordHash, currentPassword) {
		return ErrMismatch
	}

	hash, err := credentials.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.Update(user.ID, map[string]interface{}{"password_hash": hash})
}

// AdminLogin replaces the admin's persisted session token; the previous
// token stops being "current" immediately even though it remains
// cryptographically valid until its natural expiry.
func (s *Service) AdminLogin(ctx context.Context, emailAddr, password string) (*models.Admin, string, error) {
	admin, err := s.Admins.FindByEmail(normalizeEmail(emailAddr))
	if err != nil {
		return nil, "", ErrUnauthorized
	}
	if !admin.IsActive {
		return nil, "", ErrUnauthorized
	}
	if !credentials.CheckPassword(admin.PasswordHash, password) {
		return nil, "", ErrUnauthorized
	}

	t, err := token.Mint(admin.ID, token.KindAdmin, s.Secret, s.TokenTTL)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	if err := s.Admins.Update(admin.ID, map[string]interface{}{
		"token":      t,
		"last_login": now,
	}); err != nil {
		return nil, "", err
	}
	admin.Token = t
	admin.LastLogin = &now

	return admin, t, nil
}

func (s *Service) AdminLogout(ctx context.Context, adminID uuid.UUID) error {
	return s.Admins.Update(adminID, map[string]interface{}{"token": ""})
}

// storeCode generates a fresh code and overwrites the purpose's columns in
// one row update, invalidating whatever code was live before.
func (s *Service) storeCode(userID uuid.UUID, codeCol, expiresCol string) (string, time.Time, error) {
	code, err := otp.Generate()
	if err != nil {
		return "", time.Time{}, err
	}
	expires := s.now().Add(s.OTPTTL)
	if err := s.Users.Update(userID, map[string]interface{}{
		codeCol:    code,
		expiresCol: expires,
	}); err != nil {
		return "", time.Time{}, err
	}
	return code, expires, nil
}

func (s *Service) checkCooldown(ctx context.Context, purpose otp.Purpose, principal string) error {
	if s.Cooldown == nil {
		return nil
	}
	ok, err := s.Cooldown.Allow(ctx, throttle.Key(string(purpose), principal))
	if err != nil {
		// advisory state; a throttle backend outage must not block resets
		log.Printf("cooldown check for %s failed: %v", principal, err)
		return nil
	}
	if !ok {
		return ErrThrottled
	}
	return nil
}

func (s *Service) markIssued(ctx context.Context, purpose otp.Purpose, principal string) {
	if s.Cooldown == nil {
		return
	}
	if err := s.Cooldown.Mark(ctx, throttle.Key(string(purpose), principal)); err != nil {
		log.Printf("cooldown mark for %s failed: %v", principal, err)
	}
}

func registrationRecord(u *models.User) *otp.Record {
	if u.RegistrationOTP == nil || u.RegistrationOTPExpires == nil {
		return nil
	}
	return &otp.Record{Code: *u.RegistrationOTP, ExpiresAt: *u.RegistrationOTPExpires}
}

func resetRecord(u *models.User) *otp.Record {
	if u.ResetOTP == nil || u.ResetOTPExpires == nil {
		return nil
	}
	return &otp.Record{Code: *u.ResetOTP, ExpiresAt: *u.ResetOTPExpires}
}
