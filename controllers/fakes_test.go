package controllers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/SpicyTech2823/Car-rental/applications/auth"
	"github.com/SpicyTech2823/Car-rental/applications/booking"
	"github.com/SpicyTech2823/Car-rental/applications/car"
	"github.com/SpicyTech2823/Car-rental/applications/contact"
	"github.com/SpicyTech2823/Car-rental/applications/feedback"

	"github.com/google/uuid"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type tokenSessions struct {
	mu       sync.Mutex
	sessions map[string]*auth.Identity
}

func (s *tokenSessions) GetSession(_ context.Context, token string) (*auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.sessions[token]
	if !ok {
		return nil, auth.ErrNoSession
	}
	return id, nil
}

func (s *tokenSessions) SignOut(_ context.Context, id *auth.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tok, v := range s.sessions {
		if v.SessionID == id.SessionID {
			delete(s.sessions, tok)
		}
	}
	return nil
}

type adminSet map[uuid.UUID]bool

func (a adminSet) IsAdmin(_ context.Context, id uuid.UUID) (bool, error) {
	return a[id], nil
}

type memCars struct {
	mu   sync.Mutex
	next int64
	cars map[int64]*car.Car
}

func newMemCars(cars ...*car.Car) *memCars {
	r := &memCars{cars: map[int64]*car.Car{}}
	for _, c := range cars {
		r.Create(context.Background(), c)
	}
	return r
}

func (r *memCars) List(context.Context) ([]*car.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*car.Car, 0, len(r.cars))
	for _, c := range r.cars {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCars) Get(_ context.Context, id int64) (*car.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return nil, fmt.Errorf("%w: car with ID %d", car.ErrCarNotFound, id)
	}
	cp := *c
	return &cp, nil
}

func (r *memCars) Create(_ context.Context, c *car.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	c.ID = r.next
	cp := *c
	r.cars[c.ID] = &cp
	return nil
}

func (r *memCars) Update(_ context.Context, c *car.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[c.ID]; !ok {
		return car.ErrCarNotFound
	}
	cp := *c
	r.cars[c.ID] = &cp
	return nil
}

func (r *memCars) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[id]; !ok {
		return car.ErrCarNotFound
	}
	delete(r.cars, id)
	return nil
}

func (r *memCars) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cars), nil
}

type memBookings struct {
	mu       sync.Mutex
	bookings []*booking.Booking
}

func (r *memBookings) Create(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.bookings = append(r.bookings, &cp)
	return nil
}

func (r *memBookings) List(context.Context) ([]*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*booking.Booking, len(r.bookings))
	copy(out, r.bookings)
	return out, nil
}

func (r *memBookings) Get(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, booking.ErrBookingNotFound
}

func (r *memBookings) SetPaid(_ context.Context, id uuid.UUID, paid bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			b.IsPaid = paid
			return nil
		}
	}
	return booking.ErrBookingNotFound
}

func (r *memBookings) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.bookings {
		if b.ID == id {
			r.bookings = append(r.bookings[:i], r.bookings[i+1:]...)
			return nil
		}
	}
	return booking.ErrBookingNotFound
}

type memFeedback struct {
	mu    sync.Mutex
	items []*feedback.Feedback
}

// newestFirst copies the items the way the SQL repository orders them.
func (r *memFeedback) newestFirst(keep func(*feedback.Feedback) bool) []*feedback.Feedback {
	out := make([]*feedback.Feedback, 0, len(r.items))
	for _, f := range r.items {
		if keep(f) {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memFeedback) Create(_ context.Context, f *feedback.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.items = append(r.items, &cp)
	return nil
}

func (r *memFeedback) ListFeatured(_ context.Context, limit int) ([]*feedback.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.newestFirst(func(f *feedback.Feedback) bool { return f.IsFeatured })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memFeedback) List(context.Context) ([]*feedback.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.newestFirst(func(*feedback.Feedback) bool { return true }), nil
}

func (r *memFeedback) SetFeatured(_ context.Context, id uuid.UUID, featured bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.items {
		if f.ID == id {
			f.IsFeatured = featured
			return nil
		}
	}
	return feedback.ErrFeedbackNotFound
}

func (r *memFeedback) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, f := range r.items {
		if f.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return feedback.ErrFeedbackNotFound
}

// fakeAuth signs users in against fixed passwords and hands out the
// tokens tokenSessions already knows.
type fakeAuth struct {
	sessions  *tokenSessions
	passwords map[string]string
	tokens    map[string]string
}

func (a *fakeAuth) SignUp(context.Context, auth.SignUpParams) (*auth.Result, error) {
	return nil, auth.ErrInvalidEmail
}

func (a *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*auth.Result, error) {
	email = auth.NormalizeEmail(email)
	want, ok := a.passwords[email]
	if !ok || want != password {
		return nil, auth.ErrInvalidCredentials
	}
	token := a.tokens[email]
	id, err := a.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return &auth.Result{AccessToken: token, TokenType: "bearer", Identity: *id}, nil
}

func (a *fakeAuth) SetSession(context.Context, string, string) (*auth.Result, error) {
	return nil, auth.ErrNoSession
}

func (a *fakeAuth) SignOut(ctx context.Context, id *auth.Identity) error {
	return a.sessions.SignOut(ctx, id)
}

func (a *fakeAuth) ResetPasswordForEmail(_ context.Context, email, _ string) error {
	if !auth.ValidEmail(auth.NormalizeEmail(email)) {
		return auth.ErrInvalidEmail
	}
	return nil
}

func (a *fakeAuth) UpdateUser(_ context.Context, _, password, confirm string) error {
	if password != confirm {
		return auth.ErrPasswordMismatch
	}
	return nil
}

func (a *fakeAuth) RequestLoginOTP(context.Context, string) error { return nil }

func (a *fakeAuth) VerifyLoginOTP(context.Context, string, string) (*auth.Result, error) {
	return nil, auth.ErrInvalidOTP
}

type fakeRelay struct {
	mu   sync.Mutex
	sent []contact.Message
}

func (r *fakeRelay) Submit(_ context.Context, m contact.Message) error {
	if strings.TrimSpace(m.Email) == "" || strings.TrimSpace(m.Message) == "" {
		return contact.ErrInvalidMessage
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, m)
	return nil
}
