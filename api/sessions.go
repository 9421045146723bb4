/*
sessions.go - Per-session ledgers

PURPOSE:
  Each client session owns exactly one ledger.Ledger. A session is created
  empty, lives while it is used, and is discarded on DELETE or when the
  reaper finds it idle. Nothing is persisted.

WHY SESSIONS?
  The engine is a single-actor component. Instead of one global ledger, the
  HTTP layer hands every session its own state object, constructed and torn
  down at session boundaries.

CONCURRENCY:
  - SessionStore guards the session map with an RWMutex
  - Each ledger serializes its own operations with one mutex
  - A session's ledger pointer is swapped only by Reset (scenario loading)

SEE ALSO:
  - reaper.go: Idle-session cleanup
  - handlers.go: Resolves the session for each request
*/
package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is one client's ledger plus bookkeeping.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.RWMutex
	ledger   *ledger.Ledger
	lastUsed time.Time
	scenario string
}

// Ledger returns the session's current ledger.
func (s *Session) Ledger() *ledger.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger
}

// Scenario returns the demo scenario loaded into the session, if any.
func (s *Session) Scenario() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scenario
}

// LastUsed returns when the session was last resolved.
func (s *Session) LastUsed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUsed
}

// reset replaces the ledger with l and records the scenario name.
func (s *Session) reset(l *ledger.Ledger, scenario string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = l
	s.scenario = scenario
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

// =============================================================================
// SESSION STORE
// =============================================================================

// SessionStore holds the live sessions.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// TTL is how long a session may stay idle before Reap drops it.
	TTL time.Duration
	// NewLedger builds the ledger for new or reset sessions.
	NewLedger func() *ledger.Ledger
	// Now is the wall clock; replaceable in tests.
	Now func() time.Time
}

// NewSessionStore creates an empty store.
func NewSessionStore(ttl time.Duration, newLedger func() *ledger.Ledger) *SessionStore {
	if newLedger == nil {
		newLedger = func() *ledger.Ledger { return ledger.New() }
	}
	return &SessionStore{
		sessions:  make(map[string]*Session),
		TTL:       ttl,
		NewLedger: newLedger,
		Now:       time.Now,
	}
}

// Create starts a session with an empty ledger.
func (st *SessionStore) Create() *Session {
	now := st.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ledger:    st.NewLedger(),
		lastUsed:  now,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get resolves a session and marks it used.
func (st *SessionStore) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}
	s.touch(st.Now())
	return s, true
}

// Delete ends a session. Returns false when it did not exist.
func (st *SessionStore) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// Reset gives the session a fresh ledger.
func (st *SessionStore) Reset(s *Session, scenario string) *ledger.Ledger {
	l := st.NewLedger()
	s.reset(l, scenario)
	return l
}

// Reap drops sessions idle for longer than TTL and returns their ids.
func (st *SessionStore) Reap() []string {
	if st.TTL <= 0 {
		return nil
	}
	cutoff := st.Now().Add(-st.TTL)

	st.mu.Lock()
	defer st.mu.Unlock()
	var reaped []string
	for id, s := range st.sessions {
		if s.LastUsed().Before(cutoff) {
			delete(st.sessions, id)
			reaped = append(reaped, id)
		}
	}
	return reaped
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
