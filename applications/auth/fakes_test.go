package auth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SpicyTech2823/Car-rental/applications/mailer"
	"github.com/SpicyTech2823/Car-rental/applications/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type memUsers struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, fmt.Errorf("%w: %s", user.ErrUserNotFound, email)
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UserID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memUsers) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return user.ErrEmailTaken
	}
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UserID == id {
			u.Password = &hash
			return nil
		}
	}
	return user.ErrUserNotFound
}

type memStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	otps     map[string]*OTPCode
	resets   map[string]resetRow
}

type resetRow struct {
	userID    uuid.UUID
	expiresAt time.Time
}

func newMemStore() *memStore {
	return &memStore{
		sessions: map[uuid.UUID]*Session{},
		otps:     map[string]*OTPCode{},
		resets:   map[string]resetRow{},
	}
}

func (m *memStore) CreateSession(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *memStore) GetSession(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) GetSessionByRefreshHash(_ context.Context, hash string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.RefreshTokenHash == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (m *memStore) RotateSession(_ context.Context, id uuid.UUID, hash string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return errNotFound
	}
	s.RefreshTokenHash = hash
	s.ExpiresAt = expiresAt
	return nil
}

func (m *memStore) DeleteSession(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memStore) DeleteUserSessions(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *memStore) UpsertOTP(_ context.Context, otp *OTPCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *otp
	m.otps[otp.Email] = &cp
	return nil
}

func (m *memStore) GetOTP(_ context.Context, email string) (*OTPCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.otps[email]
	if !ok {
		return nil, errNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) DeleteOTP(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.otps, email)
	return nil
}

func (m *memStore) RecordOTPFailure(_ context.Context, email string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.otps[email]
	if !ok {
		return 0, errNotFound
	}
	o.Attempts++
	return o.Attempts, nil
}

func (m *memStore) CreateReset(_ context.Context, hash string, userID uuid.UUID, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets[hash] = resetRow{userID: userID, expiresAt: expiresAt}
	return nil
}

func (m *memStore) ConsumeReset(_ context.Context, hash string) (uuid.UUID, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resets[hash]
	if !ok {
		return uuid.Nil, time.Time{}, errNotFound
	}
	delete(m.resets, hash)
	return r.userID, r.expiresAt, nil
}

type outbox struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (o *outbox) Send(_ context.Context, m mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, m)
	return nil
}

func (o *outbox) last() mailer.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sent[len(o.sent)-1]
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	svc   *Service
	users *memUsers
	store *memStore
	mail  *outbox
	clock *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users: &memUsers{users: map[string]*user.User{}},
		store: newMemStore(),
		mail:  &outbox{},
		clock: &clock{now: time.Now()},
	}
	f.svc = NewService(discard, f.users, f.store, f.store, f.store, f.mail, Options{
		Secret:     "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		SiteURL:    "https://rental.example.com/",
	})
	f.svc.hashCost = bcrypt.MinCost
	f.svc.now = f.clock.Now
	return f
}
