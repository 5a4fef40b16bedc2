package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Session struct {
	ID               uuid.UUID `db:"id"`
	UserID           uuid.UUID `db:"user_id"`
	RefreshTokenHash string    `db:"refresh_token_hash"`
	ExpiresAt        time.Time `db:"expires_at"`
	CreatedAt        time.Time `db:"created_at"`
}

type OTPCode struct {
	Email     string    `db:"user_email"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
	Attempts  int       `db:"attempts"`
}

var errNotFound = errors.New("not found")

// SessionStore persists refresh-token sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	GetSessionByRefreshHash(ctx context.Context, hash string) (*Session, error)
	RotateSession(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) error
}

// OTPStore keeps at most one pending code per email.
type OTPStore interface {
	UpsertOTP(ctx context.Context, otp *OTPCode) error
	GetOTP(ctx context.Context, email string) (*OTPCode, error)
	DeleteOTP(ctx context.Context, email string) error
	// RecordOTPFailure bumps the failed-attempt counter and returns it.
	RecordOTPFailure(ctx context.Context, email string) (int, error)
}

// ResetStore holds hashed password-reset tokens.
type ResetStore interface {
	CreateReset(ctx context.Context, hash string, userID uuid.UUID, expiresAt time.Time) error
	// ConsumeReset deletes the token and returns who it belonged to.
	ConsumeReset(ctx context.Context, hash string) (uuid.UUID, time.Time, error)
}

// SQLStore implements SessionStore, OTPStore and ResetStore on PostgreSQL.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) CreateSession(ctx context.Context, sess *Session) error {
	const q = `
		INSERT INTO sessions (id, user_id, refresh_token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.db.ExecContext(ctx, q, sess.ID, sess.UserID, sess.RefreshTokenHash, sess.ExpiresAt, sess.CreatedAt); err != nil {
		return fmt.Errorf("SessionStore.Create: %w", err)
	}
	return nil
}

func (s *SQLStore) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.getSession(ctx, `SELECT id, user_id, refresh_token_hash, expires_at, created_at FROM sessions WHERE id = $1`, id)
}

func (s *SQLStore) GetSessionByRefreshHash(ctx context.Context, hash string) (*Session, error) {
	return s.getSession(ctx, `SELECT id, user_id, refresh_token_hash, expires_at, created_at FROM sessions WHERE refresh_token_hash = $1`, hash)
}

func (s *SQLStore) getSession(ctx context.Context, q string, arg interface{}) (*Session, error) {
	sess := &Session{}
	if err := s.db.GetContext(ctx, sess, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, fmt.Errorf("SessionStore.Get: %w", err)
	}
	return sess, nil
}

func (s *SQLStore) RotateSession(ctx context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	const q = `UPDATE sessions SET refresh_token_hash = $2, expires_at = $3 WHERE id = $1`
	result, err := s.db.ExecContext(ctx, q, id, hash, expiresAt)
	if err != nil {
		return fmt.Errorf("SessionStore.Rotate: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errNotFound
	}
	return nil
}

func (s *SQLStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("SessionStore.Delete: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("SessionStore.DeleteForUser: %w", err)
	}
	return nil
}

func (s *SQLStore) UpsertOTP(ctx context.Context, otp *OTPCode) error {
	const q = `
		INSERT INTO otp_codes (user_email, code, expires_at, created_at, attempts)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (user_email) DO UPDATE
		SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, created_at = EXCLUDED.created_at, attempts = 0`
	if _, err := s.db.ExecContext(ctx, q, otp.Email, otp.Code, otp.ExpiresAt, otp.CreatedAt); err != nil {
		return fmt.Errorf("OTPStore.Upsert: %w", err)
	}
	return nil
}

func (s *SQLStore) GetOTP(ctx context.Context, email string) (*OTPCode, error) {
	otp := &OTPCode{}
	const q = `SELECT user_email, code, expires_at, created_at, attempts FROM otp_codes WHERE user_email = $1`
	if err := s.db.GetContext(ctx, otp, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, fmt.Errorf("OTPStore.Get: %w", err)
	}
	return otp, nil
}

func (s *SQLStore) DeleteOTP(ctx context.Context, email string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM otp_codes WHERE user_email = $1`, email); err != nil {
		return fmt.Errorf("OTPStore.Delete: %w", err)
	}
	return nil
}

func (s *SQLStore) RecordOTPFailure(ctx context.Context, email string) (int, error) {
	var attempts int
	const q = `UPDATE otp_codes SET attempts = attempts + 1 WHERE user_email = $1 RETURNING attempts`
	if err := s.db.GetContext(ctx, &attempts, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errNotFound
		}
		return 0, fmt.Errorf("OTPStore.RecordFailure: %w", err)
	}
	return attempts, nil
}

func (s *SQLStore) CreateReset(ctx context.Context, hash string, userID uuid.UUID, expiresAt time.Time) error {
	const q = `INSERT INTO password_resets (token_hash, user_id, expires_at) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, q, hash, userID, expiresAt); err != nil {
		return fmt.Errorf("ResetStore.Create: %w", err)
	}
	return nil
}

func (s *SQLStore) ConsumeReset(ctx context.Context, hash string) (uuid.UUID, time.Time, error) {
	var row struct {
		UserID    uuid.UUID `db:"user_id"`
		ExpiresAt time.Time `db:"expires_at"`
	}
	const q = `DELETE FROM password_resets WHERE token_hash = $1 RETURNING user_id, expires_at`
	if err := s.db.QueryRowxContext(ctx, q, hash).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, time.Time{}, errNotFound
		}
		return uuid.Nil, time.Time{}, fmt.Errorf("ResetStore.Consume: %w", err)
	}
	return row.UserID, row.ExpiresAt, nil
}
