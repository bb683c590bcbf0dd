package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Registry maps browser session ids to sessions. Idle sessions expire and the
// least recently used are evicted once the registry is full.
type Registry struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
	factory  func(id string) *Session
}

// NewRegistry returns a registry holding at most size sessions, each kept for
// ttl after its last use. factory builds a session for a new id.
func NewRegistry(size int, ttl time.Duration, factory func(id string) *Session) *Registry {
	if size <= 0 {
		size = 1024
	}
	return &Registry{
		sessions: expirable.NewLRU[string, *Session](size, nil, ttl),
		factory:  factory,
	}
}

// Get returns the session for id, creating one with a fresh id when id is
// empty, malformed, unknown or expired. The returned bool reports creation.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := uuid.Parse(id); err == nil {
		if s, ok := r.sessions.Get(id); ok {
			// Re-adding refreshes the expiry.
			r.sessions.Add(id, s)
			return s, false
		}
	}
	newID := uuid.NewString()
	s := r.factory(newID)
	r.sessions.Add(newID, s)
	return s, true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.Len()
}
