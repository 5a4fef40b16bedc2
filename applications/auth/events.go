package auth

import (
	"sync"

	"github.com/google/uuid"
)

type Event string

const (
	EventSignedIn         Event = "SIGNED_IN"
	EventSignedOut        Event = "SIGNED_OUT"
	EventTokenRefreshed   Event = "TOKEN_REFRESHED"
	EventPasswordRecovery Event = "PASSWORD_RECOVERY"
	EventUserUpdated      Event = "USER_UPDATED"
)

// StateChange is delivered to OnAuthStateChange subscribers. SessionID is
// uuid.Nil when the change covers every session of the user.
type StateChange struct {
	Event     Event
	UserID    uuid.UUID
	SessionID uuid.UUID
}

type broadcaster struct {
	mu       sync.Mutex
	next     int
	handlers map[int]func(StateChange)
}

func newBroadcaster() *broadcaster {
	return &broadcaster{handlers: make(map[int]func(StateChange))}
}

func (b *broadcaster) subscribe(h func(StateChange)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.handlers[id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

// publish calls handlers synchronously, outside the lock.
func (b *broadcaster) publish(ev StateChange) {
	b.mu.Lock()
	hs := make([]func(StateChange), 0, len(b.handlers))
	for _, h := range b.handlers {
		hs = append(hs, h)
	}
	b.mu.Unlock()

	for _, h := range hs {
		h(ev)
	}
}
