package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SpicyTech2823/Car-rental/applications/mailer"
	"github.com/SpicyTech2823/Car-rental/applications/user"

	"golang.org/x/crypto/bcrypt"
)

const resetExpiry = time.Hour

// ResetPasswordForEmail mails a recovery link. Unknown addresses succeed
// without sending anything.
func (s *Service) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if redirectTo == "" {
		redirectTo = s.siteURL + "/reset-password"
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.log.Info(fmt.Sprintf("[auth] Password reset requested for unknown email %s.", email))
			return nil
		}
		return err
	}

	token, hash, err := newOpaqueToken()
	if err != nil {
		return err
	}
	if err := s.resets.CreateReset(ctx, hash, u.UserID, s.now().Add(resetExpiry)); err != nil {
		return err
	}

	link := fmt.Sprintf("%s#access_token=%s&type=recovery", redirectTo, token)
	if err := s.mail.Send(ctx, mailer.PasswordResetMessage(email, link)); err != nil {
		s.log.Error(fmt.Sprintf("[auth] Failed to send reset email to %s: %v", email, err))
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	s.log.Info(fmt.Sprintf("[auth] Password reset link sent to %s.", email))
	return nil
}

// UpdateUser sets a new password using a recovery token, then signs the
// user out everywhere.
func (s *Service) UpdateUser(ctx context.Context, resetToken, password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if resetToken == "" {
		return ErrInvalidResetToken
	}

	userID, expiresAt, err := s.resets.ConsumeReset(ctx, hashToken(resetToken))
	if err != nil {
		if errors.Is(err, errNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if !s.now().Before(expiresAt) {
		return ErrInvalidResetToken
	}
	s.events.publish(StateChange{Event: EventPasswordRecovery, UserID: userID})

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	s.events.publish(StateChange{Event: EventUserUpdated, UserID: userID})

	if err := s.sessions.DeleteUserSessions(ctx, userID); err != nil {
		return err
	}
	s.events.publish(StateChange{Event: EventSignedOut, UserID: userID})
	s.log.Info(fmt.Sprintf("[auth] Password updated for user %s, all sessions closed.", userID))
	return nil
}
