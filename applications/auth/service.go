package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/SpicyTech2823/Car-rental/applications/mailer"
	"github.com/SpicyTech2823/Car-rental/applications/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Options struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	SiteURL    string
}

// Service owns accounts, sessions and the auth-state event stream.
type Service struct {
	log      *slog.Logger
	users    user.Repository
	sessions SessionStore
	otps     OTPStore
	resets   ResetStore
	mail     mailer.Sender
	tokens   *TokenIssuer
	events   *broadcaster

	refreshTTL time.Duration
	siteURL    string
	hashCost   int
	now        func() time.Time
}

func NewService(log *slog.Logger, users user.Repository, sessions SessionStore, otps OTPStore, resets ResetStore, mail mailer.Sender, opts Options) *Service {
	return &Service{
		log:        log,
		users:      users,
		sessions:   sessions,
		otps:       otps,
		resets:     resets,
		mail:       mail,
		tokens:     NewTokenIssuer(opts.Secret, opts.AccessTTL),
		events:     newBroadcaster(),
		refreshTTL: opts.RefreshTTL,
		siteURL:    strings.TrimRight(opts.SiteURL, "/"),
		hashCost:   bcrypt.DefaultCost,
		now:        time.Now,
	}
}

type SignUpParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// Result is returned whenever a session is opened or refreshed.
type Result struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Identity     Identity  `json:"user"`
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// OnAuthStateChange registers h for every auth event. The returned func
// unsubscribes it.
func (s *Service) OnAuthStateChange(h func(StateChange)) func() {
	return s.events.subscribe(h)
}

func (s *Service) SignUp(ctx context.Context, p SignUpParams) (*Result, error) {
	email := NormalizeEmail(p.Email)
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(p.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	role := p.Role
	if role == "" {
		role = user.RoleUser
	}

	u := &user.User{
		UserID:    uuid.New(),
		Email:     email,
		Password:  &hashStr,
		Name:      strings.TrimSpace(p.Name),
		Phone:     strings.TrimSpace(p.Phone),
		Role:      role,
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info(fmt.Sprintf("[auth] User %s signed up with ID %s.", email, u.UserID))

	return s.openSession(ctx, u)
}

func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*Result, error) {
	email = NormalizeEmail(email)
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			s.log.Error(fmt.Sprintf("[auth] Sign-in lookup failed for %s: %v", email, err))
		}
		return nil, ErrInvalidCredentials
	}
	if u.PasswordHash() == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)); err != nil {
		s.log.Warn(fmt.Sprintf("[auth] Wrong password for %s.", email))
		return nil, ErrInvalidCredentials
	}
	return s.openSession(ctx, u)
}

// GetSession resolves an access token to the caller. The token must be
// valid and its session must not have been signed out.
func (s *Service) GetSession(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, ErrNoSession
	}
	id, err := s.tokens.Parse(accessToken, false)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.GetSession(ctx, id.SessionID)
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	if sess.UserID != id.UserID || !s.now().Before(sess.ExpiresAt) {
		return nil, ErrNoSession
	}
	return id, nil
}

// SetSession exchanges a refresh token for a new token pair. The access
// token may be expired but, when given, must belong to the same session.
func (s *Service) SetSession(ctx context.Context, accessToken, refreshToken string) (*Result, error) {
	if refreshToken == "" {
		return nil, ErrNoSession
	}
	sess, err := s.sessions.GetSessionByRefreshHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	if !s.now().Before(sess.ExpiresAt) {
		_ = s.sessions.DeleteSession(ctx, sess.ID)
		return nil, ErrNoSession
	}
	if accessToken != "" {
		prev, err := s.tokens.Parse(accessToken, true)
		if err != nil || prev.SessionID != sess.ID {
			return nil, ErrNoSession
		}
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	refresh, hash, err := newOpaqueToken()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.RotateSession(ctx, sess.ID, hash, s.now().Add(s.refreshTTL)); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	res, err := s.issue(u, sess.ID, refresh)
	if err != nil {
		return nil, err
	}
	s.events.publish(StateChange{Event: EventTokenRefreshed, UserID: u.UserID, SessionID: sess.ID})
	return res, nil
}

func (s *Service) SignOut(ctx context.Context, id *Identity) error {
	if id == nil {
		return ErrNoSession
	}
	if err := s.sessions.DeleteSession(ctx, id.SessionID); err != nil {
		return err
	}
	s.log.Info(fmt.Sprintf("[auth] Session %s of %s signed out.", id.SessionID, id.Email))
	s.events.publish(StateChange{Event: EventSignedOut, UserID: id.UserID, SessionID: id.SessionID})
	return nil
}

func (s *Service) openSession(ctx context.Context, u *user.User) (*Result, error) {
	refresh, hash, err := newOpaqueToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess := &Session{
		ID:               uuid.New(),
		UserID:           u.UserID,
		RefreshTokenHash: hash,
		ExpiresAt:        now.Add(s.refreshTTL),
		CreatedAt:        now,
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	res, err := s.issue(u, sess.ID, refresh)
	if err != nil {
		return nil, err
	}
	s.events.publish(StateChange{Event: EventSignedIn, UserID: u.UserID, SessionID: sess.ID})
	return res, nil
}

func (s *Service) issue(u *user.User, sessionID uuid.UUID, refresh string) (*Result, error) {
	id := Identity{
		UserID:    u.UserID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		SessionID: sessionID,
	}
	access, expiresAt, err := s.tokens.Issue(id, s.now())
	if err != nil {
		return nil, err
	}
	return &Result{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt,
		Identity:     id,
	}, nil
}
