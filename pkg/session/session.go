// Package session keeps the live diagrams of a server process.
//
// A [Session] wraps one [diagram.Diagram] with an expiry that slides forward
// on every access. [Store] holds sessions in memory, evicts expired ones on
// access and from a background janitor, and closes the diagram of every
// session it drops so in-flight layout and expansion work is cancelled.
//
// # Usage
//
//	store := session.NewStore(session.DefaultTTL, session.WithMaxSessions(500))
//	defer store.Close()
//	go store.Run(ctx, time.Minute)
//
//	sess, err := store.Add(d)
//	...
//	sess, err := store.Get(id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matzehuels/argmap/pkg/diagram"
	"github.com/matzehuels/argmap/pkg/observability"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist or has expired.
	ErrNotFound = errors.New("session not found")

	// ErrFull is returned when the store holds its maximum number of sessions.
	ErrFull = errors.New("too many sessions")

	// ErrClosed is returned after [Store.Close].
	ErrClosed = errors.New("session store closed")
)

// DefaultTTL is how long an untouched session lives.
const DefaultTTL = 30 * time.Minute

// Session is one live diagram.
type Session struct {
	Diagram   *diagram.Diagram
	CreatedAt time.Time

	mu        sync.Mutex
	expiresAt time.Time
}

// ID returns the diagram id, which doubles as the session id.
func (s *Session) ID() string { return s.Diagram.ID() }

// ExpiresAt returns the current expiry.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// IsExpired reports whether the session expired before now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt())
}

func (s *Session) touch(now time.Time, ttl time.Duration) {
	s.mu.Lock()
	s.expiresAt = now.Add(ttl)
	s.mu.Unlock()
}

// Option configures a [Store].
type Option func(*Store)

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) Option { return func(s *Store) { s.max = n } }

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// Store is an in-memory session registry. It is safe for concurrent use.
type Store struct {
	ttl time.Duration
	max int
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

// NewStore creates a store whose sessions expire after ttl without access.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{ttl: ttl, now: time.Now, sessions: make(map[string]*Session)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers d. The store owns d from now on and closes it on removal.
func (s *Store) Add(d *diagram.Diagram) (*Session, error) {
	now := s.now()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		d.Close()
		return nil, ErrClosed
	}
	expired := s.collect(now)
	if s.max > 0 && len(s.sessions) >= s.max {
		live := len(s.sessions)
		s.mu.Unlock()
		closeAll(expired, observability.CloseExpired, live)
		d.Close()
		return nil, ErrFull
	}
	sess := &Session{Diagram: d, CreatedAt: now}
	sess.touch(now, s.ttl)
	s.sessions[d.ID()] = sess
	live := len(s.sessions)
	s.mu.Unlock()

	closeAll(expired, observability.CloseExpired, live)
	observability.Session().OnSessionOpen(d.ID(), live)
	return sess, nil
}

// Get returns the live session id and extends its expiry.
func (s *Store) Get(id string) (*Session, error) {
	now := s.now()
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok && sess.IsExpired(now) {
		delete(s.sessions, id)
		live := len(s.sessions)
		s.mu.Unlock()
		closeAll([]*Session{sess}, observability.CloseExpired, live)
		return nil, ErrNotFound
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	sess.touch(now, s.ttl)
	return sess, nil
}

// Delete removes and closes session id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	live := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	closeAll([]*Session{sess}, observability.CloseDeleted, live)
	return nil
}

// Len returns the number of registered sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes expired sessions and returns how many were removed.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	expired := s.collect(s.now())
	live := len(s.sessions)
	s.mu.Unlock()
	closeAll(expired, observability.CloseExpired, live)
	return len(expired)
}

// Run calls Cleanup every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Cleanup()
		}
	}
}

// Close removes and closes every session. Later calls to Add fail.
func (s *Store) Close() {
	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		all = append(all, sess)
		delete(s.sessions, id)
	}
	s.closed = true
	s.mu.Unlock()
	closeAll(all, observability.CloseShutdown, 0)
}

// collect unregisters expired sessions. Callers hold s.mu and close the
// returned diagrams after releasing it.
func (s *Store) collect(now time.Time) []*Session {
	var out []*Session
	for id, sess := range s.sessions {
		if sess.IsExpired(now) {
			out = append(out, sess)
			delete(s.sessions, id)
		}
	}
	return out
}

// closeAll closes the diagrams of sessions already removed from the store
// and reports them; live is the count left behind.
func closeAll(sessions []*Session, reason string, live int) {
	hooks := observability.Session()
	for _, sess := range sessions {
		sess.Diagram.Close()
		hooks.OnSessionClose(sess.ID(), reason, live)
	}
}
