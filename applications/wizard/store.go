package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SpicyTech2823/Car-rental/applications/auth"
	"github.com/SpicyTech2823/Car-rental/applications/car"

	"github.com/google/uuid"
)

var ErrWizardNotFound = errors.New("wizard session not found")

// CatalogReader lists the cars a new session can choose from.
type CatalogReader interface {
	List(ctx context.Context) ([]*car.Car, error)
}

// Store keeps wizard sessions in memory. A session belongs to one user and
// is dropped on sign-out or after the idle timeout.
type Store struct {
	log      *slog.Logger
	catalog  CatalogReader
	writer   BookingWriter
	invoices InvoiceSender
	idle     time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Wizard
}

func NewStore(log *slog.Logger, catalog CatalogReader, writer BookingWriter, invoices InvoiceSender, idle time.Duration) *Store {
	return &Store{
		log:      log,
		catalog:  catalog,
		writer:   writer,
		invoices: invoices,
		idle:     idle,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Wizard),
	}
}

// Start opens a session for owner with a fresh catalog snapshot.
func (s *Store) Start(ctx context.Context, owner uuid.UUID) (*Wizard, error) {
	cars, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	w := newWizard(s.log, owner, cars, s.writer, s.invoices, s.now())
	s.mu.Lock()
	s.sessions[w.ID] = w
	s.mu.Unlock()

	s.log.Info(fmt.Sprintf("[wizard] Session %s started for user %s with %d cars.", w.ID, owner, len(cars)))
	return w, nil
}

// Get returns the owner's session and marks it active. Sessions of other
// users are reported as not found.
func (s *Store) Get(owner, id uuid.UUID) (*Wizard, error) {
	s.mu.Lock()
	w, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok || w.Owner != owner {
		return nil, fmt.Errorf("%w: %s", ErrWizardNotFound, id)
	}

	now := s.now()
	if s.idle > 0 && now.Sub(w.idleSince()) > s.idle {
		s.remove(id)
		return nil, fmt.Errorf("%w: %s expired", ErrWizardNotFound, id)
	}
	w.touch(now)
	return w, nil
}

func (s *Store) remove(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// DiscardOwner drops every session of a user.
func (s *Store) DiscardOwner(owner uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, w := range s.sessions {
		if w.Owner == owner {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// HandleAuthEvent is registered with auth.Service.OnAuthStateChange.
func (s *Store) HandleAuthEvent(ev auth.StateChange) {
	if ev.Event != auth.EventSignedOut {
		return
	}
	if n := s.DiscardOwner(ev.UserID); n > 0 {
		s.log.Info(fmt.Sprintf("[wizard] Discarded %d session(s) of signed-out user %s.", n, ev.UserID))
	}
}

// Sweep removes sessions idle for longer than the timeout.
func (s *Store) Sweep() int {
	if s.idle <= 0 {
		return 0
	}
	s.mu.Lock()
	snapshot := make([]*Wizard, 0, len(s.sessions))
	for _, w := range s.sessions {
		snapshot = append(snapshot, w)
	}
	s.mu.Unlock()

	now := s.now()
	var stale []*Wizard
	for _, w := range snapshot {
		if now.Sub(w.idleSince()) > s.idle {
			stale = append(stale, w)
		}
	}
	if len(stale) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range stale {
		if s.sessions[w.ID] == w {
			delete(s.sessions, w.ID)
			n++
		}
	}
	return n
}

// RunJanitor sweeps every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.Info(fmt.Sprintf("[wizard] Swept %d idle session(s).", n))
			}
		}
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
