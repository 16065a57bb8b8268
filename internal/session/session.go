// Package session holds the per-conversation state that survives between
// turns, and a store that serialises turn processing per session.
//
// State is an explicit value passed into and returned from each turn: the
// engine never mutates stored state directly. The [Store] commits the
// returned state atomically at the end of a successful turn, so a failed or
// timed-out turn leaves the conversation exactly where it was.
//
// Sessions are ephemeral: entries idle for longer than the store's TTL are
// swept out, so a server minting a fresh session ID per anonymous chat does
// not accumulate state forever.
package session

import (
	"context"
	"sync"
	"time"
)

// Topic names the subject the previous turn established. Elaboration always
// keys off this value.
type Topic string

const (
	TopicCounters   Topic = "counters"
	TopicCombos     Topic = "combos"
	TopicUsage      Topic = "usage"
	TopicBuilds     Topic = "builds"
	TopicKenTrick   Topic = "kentrick"
	TopicPlaystyles Topic = "playstyles"
	TopicMisc       Topic = "misc"
)

const (
	// DefaultTTL is how long an idle session survives before the store
	// reclaims it.
	DefaultTTL = 30 * time.Minute

	// sweepEvery rate-limits expiry scans; at most one full scan per
	// interval, piggybacked on session lookups.
	sweepEvery = time.Minute
)

// State is one conversation's cross-turn memory. The zero value is not ready;
// use [NewState].
type State struct {
	// LastTopic is the subject established by the previous turn.
	LastTopic Topic

	// LastQuestion is the previous raw user message, kept so elaboration can
	// re-detect the entity the player was asking about.
	LastQuestion string

	// DeepMode makes every answer default to its long-form variant without an
	// explicit elaborate request.
	DeepMode bool
}

// NewState returns the session-start defaults.
func NewState() State {
	return State{LastTopic: TopicMisc}
}

// Store keeps per-session state keyed by session ID and guarantees at most
// one in-flight turn per session. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	sessions  map[string]*entry
	ttl       time.Duration
	lastSweep time.Time
}

type entry struct {
	turnMu     sync.Mutex
	state      State
	lastActive time.Time
}

// StoreOption configures a [Store].
type StoreOption func(*Store)

// WithTTL overrides the idle-session lifetime. Default is [DefaultTTL];
// zero or negative disables expiry entirely.
func WithTTL(d time.Duration) StoreOption {
	return func(s *Store) { s.ttl = d }
}

// NewStore returns an empty [Store] with the default idle TTL.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions:  make(map[string]*entry),
		ttl:       DefaultTTL,
		lastSweep: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithTurn runs fn while holding the session's turn lock, passing the current
// state. The state fn returns is committed only when fn returns nil — an
// error (timeout, backend failure) leaves the stored state untouched.
//
// Concurrent calls for the same session queue; calls for different sessions
// proceed independently. ctx is checked before fn runs so a caller that gave
// up while queued does not burn a turn.
func (s *Store) WithTurn(ctx context.Context, sessionID string, fn func(State) (State, error)) error {
	e := s.get(sessionID)

	e.turnMu.Lock()
	defer e.turnMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	next, err := fn(e.state)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}

// Peek returns a copy of the session's current state, creating the session
// with defaults when it does not exist yet.
func (s *Store) Peek(sessionID string) State {
	e := s.get(sessionID)
	e.turnMu.Lock()
	defer e.turnMu.Unlock()
	return e.state
}

// Reset discards a session's state. A subsequent turn starts from defaults.
func (s *Store) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len reports the number of known sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// get returns the session's entry, creating it on first use, and refreshes
// its idle clock. Expired sessions are swept opportunistically here.
func (s *Store) get(sessionID string) *entry {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)

	e, ok := s.sessions[sessionID]
	if !ok {
		e = &entry{state: NewState()}
		s.sessions[sessionID] = e
	}
	e.lastActive = now
	return e
}

// sweepLocked deletes sessions idle for longer than the TTL. Scans run at
// most once per sweepEvery. Caller must hold s.mu.
func (s *Store) sweepLocked(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < sweepEvery {
		return
	}
	s.lastSweep = now
	for id, e := range s.sessions {
		if now.Sub(e.lastActive) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
