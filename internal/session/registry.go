// Package session keeps the wizard runs of connected clients in memory.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"tour-composer-service/internal/adapters/cache"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/wizard"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session is one wizard run. Every operation on it goes through Do, which
// serializes access and ties the call to the session's lifetime.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	wizard *wizard.Controller
}

// Do runs fn with the session lock held. The context passed to fn is ctx,
// additionally cancelled when the session is deleted or expires.
func (s *Session) Do(ctx context.Context, fn func(ctx context.Context, w *wizard.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctx.Err(); err != nil {
		return fmt.Errorf("session %s: %w", s.ID, ErrNotFound)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	return fn(ctx, s.wizard)
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

// Registry creates and tracks sessions. Idle sessions expire after the TTL;
// each access restarts it. Ending a session, by Delete, expiry, eviction or
// Close, cancels its in-flight work. Unsubmitted itineraries are lost then.
type Registry struct {
	deps     wizard.Deps
	sessions *cache.Memory[string, *Session]
	root     context.Context
	stop     context.CancelFunc
	now      func() time.Time
}

// NewRegistry returns a registry holding at most maxSessions sessions (the
// least recently used is dropped beyond that) for ttl each.
func NewRegistry(deps wizard.Deps, ttl time.Duration, maxSessions int) *Registry {
	root, stop := context.WithCancel(context.Background())

	r := &Registry{deps: deps, root: root, stop: stop, now: time.Now}
	r.sessions = cache.NewMemory[string, *Session](ttl, maxSessions, cache.WithOnEvict[string, *Session](func(id string, s *Session) {
		s.cancel()
		log.Printf("session ended: id=%s", id)
	}))

	if ttl > 0 {
		r.sessions.StartJanitor(ttl / 2)
	}
	return r
}

// Create starts a wizard run with the given capabilities.
func (r *Registry) Create(caps domain.Capabilities) (*Session, error) {
	w, err := wizard.New(caps, r.deps)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	ctx, cancel := context.WithCancel(r.root)
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: r.now(),
		ctx:       ctx,
		cancel:    cancel,
		wizard:    w,
	}

	r.sessions.Set(s.ID, s)
	log.Printf("session created: id=%s", s.ID)
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	s, ok := r.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}

	r.sessions.Set(id, s)
	return s, nil
}

// Delete ends the session and reports whether it existed.
func (r *Registry) Delete(id string) bool {
	return r.sessions.Delete(id)
}

func (r *Registry) Len() int { return r.sessions.Len() }

// Close ends every session.
func (r *Registry) Close() {
	r.sessions.Close()
	r.stop()
}
