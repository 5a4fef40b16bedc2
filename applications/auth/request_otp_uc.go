package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"time"

	"github.com/SpicyTech2823/Car-rental/applications/mailer"
	"github.com/SpicyTech2823/Car-rental/applications/user"

	"github.com/google/uuid"
)

const (
	otpExpiry   = 5 * time.Minute
	otpCooldown = 30 * time.Second

	// otpMaxAttempts wrong guesses burn the pending code.
	otpMaxAttempts = 5
)

// generateOTP returns a 6-digit code in [100000, 999999].
func generateOTP() (string, error) {
	const min int64 = 100000
	const span int64 = 900000

	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", fmt.Errorf("crypto rand failed: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+min), nil
}

// RequestLoginOTP mails a one-time admin login code and magic link. The
// account is created on first use; membership is checked later by the gate.
func (s *Service) RequestLoginOTP(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	now := s.now()

	prev, err := s.otps.GetOTP(ctx, email)
	switch {
	case err == nil:
		if now.Sub(prev.CreatedAt) < otpCooldown {
			s.log.Warn(fmt.Sprintf("[auth] OTP for %s requested again within cooldown.", email))
			return ErrOTPCooldown
		}
	case !errors.Is(err, errNotFound):
		return err
	}

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			return err
		}
		s.log.Info(fmt.Sprintf("[auth] User %s not found. Attempting creation.", email))
		u := &user.User{
			UserID:    uuid.New(),
			Email:     email,
			Role:      user.RoleUser,
			CreatedAt: now.UTC(),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	otp := &OTPCode{Email: email, Code: code, ExpiresAt: now.Add(otpExpiry), CreatedAt: now}
	if err := s.otps.UpsertOTP(ctx, otp); err != nil {
		return fmt.Errorf("failed to save OTP: %w", err)
	}

	q := url.Values{}
	q.Set("email", email)
	q.Set("code", code)
	link := s.siteURL + "/admin/dashboard#" + q.Encode()

	if err := s.mail.Send(ctx, mailer.LoginOTPMessage(email, code, link)); err != nil {
		s.log.Error(fmt.Sprintf("[auth] Failed to dispatch OTP email for %s: %v", email, err))
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	s.log.Info(fmt.Sprintf("[auth] OTP sent to %s, expires at %s.", email, otp.ExpiresAt.Format(time.RFC3339)))
	return nil
}
