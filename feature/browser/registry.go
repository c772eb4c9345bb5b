package browser

import (
	"sync"
	"time"
)

type registryEntry struct {
	session  *Session
	lastSeen time.Time
}

// Registry keeps one Session per session id. Sessions idle for longer than
// the TTL are dropped the next time the registry is touched.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*registryEntry
	factory  func() *Session
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry creates a registry that builds new sessions with factory.
func NewRegistry(factory func() *Session, ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*registryEntry),
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the session for id, creating it at the root if needed.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.evictLocked(now)

	e, ok := r.sessions[id]
	if !ok {
		e = &registryEntry{session: r.factory()}
		r.sessions[id] = e
	}
	e.lastSeen = now
	return e.session
}

// Drop forgets the session for id, e.g. on logout.
func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked(r.now())
	return len(r.sessions)
}

func (r *Registry) evictLocked(now time.Time) {
	if r.ttl <= 0 {
		return
	}
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.sessions, id)
		}
	}
}
