package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
)

// VerifyLoginOTP consumes a pending code and opens a session.
func (s *Service) VerifyLoginOTP(ctx context.Context, email, code string) (*Result, error) {
	email = NormalizeEmail(email)

	otp, err := s.otps.GetOTP(ctx, email)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		s.log.Warn(fmt.Sprintf("[auth] OTP mismatch for %s.", email))
		attempts, err := s.otps.RecordOTPFailure(ctx, email)
		if err != nil && !errors.Is(err, errNotFound) {
			return nil, err
		}
		if attempts >= otpMaxAttempts {
			s.log.Warn(fmt.Sprintf("[auth] OTP for %s discarded after %d failed attempts.", email, attempts))
			if err := s.otps.DeleteOTP(ctx, email); err != nil {
				return nil, err
			}
		}
		return nil, ErrInvalidOTP
	}
	if !s.now().Before(otp.ExpiresAt) {
		_ = s.otps.DeleteOTP(ctx, email)
		return nil, ErrOTPExpired
	}
	if err := s.otps.DeleteOTP(ctx, email); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user after OTP verification: %w", err)
	}
	s.log.Info(fmt.Sprintf("[auth] OTP verified for %s.", email))
	return s.openSession(ctx, u)
}
