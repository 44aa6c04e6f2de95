package session

import (
	"log"
	"sync"
)

// Countdown is the cancellable handle for a session's ticking timer. Stop is
// idempotent; a stopped countdown never fires again.
type Countdown struct {
	stopOnce sync.Once
	stop     chan struct{}
}

func newCountdown() *Countdown {
	return &Countdown{stop: make(chan struct{})}
}

// Stop cancels the countdown. Safe to call any number of times.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Done exposes the cancellation channel for the ticking goroutine.
func (c *Countdown) Done() <-chan struct{} {
	return c.stop
}

// LiveSession is the in-memory state of one pairing window. The countdown
// handle is owned exclusively by the session and released on destroy.
type LiveSession struct {
	ID string

	mu           sync.Mutex
	participants map[string]struct{}

	// countdown has its own guard so Destroy can stop it from a handler
	// that already holds the session's transition lock.
	cdMu      sync.Mutex
	countdown *Countdown
}

// Countdown returns the currently registered countdown handle, or nil.
func (s *LiveSession) Countdown() *Countdown {
	s.cdMu.Lock()
	defer s.cdMu.Unlock()
	return s.countdown
}

func (s *LiveSession) setCountdown(cd *Countdown) {
	s.cdMu.Lock()
	s.countdown = cd
	s.cdMu.Unlock()
}

func (s *LiveSession) stopCountdown() {
	if cd := s.Countdown(); cd != nil {
		cd.Stop()
	}
}

// Participants returns the current participant count.
func (s *LiveSession) Participants() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.participants)
}

// sessionLock serializes record transitions for one session id. Reference
// counted so entries disappear once the last holder releases.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// Registry maps session ids to live sessions. It guarantees at most one
// LiveSession per id, owns timer lifecycles (destroying a session always
// stops its countdown) and hands out the per-id transition lock that every
// state change for a session must hold, whether or not a live session exists
// yet.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*LiveSession

	lkMu  sync.Mutex
	locks map[string]*sessionLock
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*LiveSession),
		locks:    make(map[string]*sessionLock),
	}
}

// LockSession acquires the transition lock for sessionID and returns its
// release function. Every load-modify-save of a session's record serializes
// on this lock, including decisions and skips that arrive before any join.
func (r *Registry) LockSession(sessionID string) func() {
	r.lkMu.Lock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		r.locks[sessionID] = l
	}
	l.refs++
	r.lkMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		r.lkMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, sessionID)
		}
		r.lkMu.Unlock()
	}
}

// Join returns the live session for sessionID, creating it if needed, and
// adds userID to its participant set. Concurrent joins from both participants
// land on the same session.
func (r *Registry) Join(sessionID, userID string) *LiveSession {
	r.mu.Lock()
	ls, ok := r.sessions[sessionID]
	if !ok {
		ls = &LiveSession{
			ID:           sessionID,
			participants: make(map[string]struct{}),
		}
		r.sessions[sessionID] = ls
	}
	r.mu.Unlock()

	ls.mu.Lock()
	ls.participants[userID] = struct{}{}
	ls.mu.Unlock()
	return ls
}

// Get returns the live session for sessionID, or nil.
func (r *Registry) Get(sessionID string) *LiveSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[sessionID]
}

// Destroy stops the session's countdown and removes the entry. Destroying an
// unknown session is a no-op.
func (r *Registry) Destroy(sessionID string) {
	r.mu.Lock()
	ls, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	ls.stopCountdown()
	log.Printf("session %s destroyed", sessionID)
}

// Leave removes userID from the session's participant set and reports
// whether the session became empty. Unknown sessions are a no-op.
func (r *Registry) Leave(sessionID, userID string) (empty bool) {
	r.mu.Lock()
	ls, ok := r.sessions[sessionID]
	r.mu.Unlock()
	if !ok {
		return false
	}

	ls.mu.Lock()
	delete(ls.participants, userID)
	empty = len(ls.participants) == 0
	ls.mu.Unlock()
	return empty
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
