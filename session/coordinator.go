package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"blink_server/models"
)

// Event names on the realtime surface.
const (
	EventSessionStarted    = "session:started"
	EventSessionTick       = "session:tick"
	EventSessionTimedOut   = "session:timedOut"
	EventSessionExtended   = "session:extended"
	EventSessionEnded      = "session:ended"
	EventSessionSkipped    = "session:skipped"
	EventHelperDelivered   = "helper:delivered"
	EventHelperUnavailable = "helper:unavailable"
)

var (
	// ErrSessionNotFound is returned for operations against an unknown session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNotParticipant is returned when the acting user is not one of the pair.
	ErrNotParticipant = errors.New("user is not a participant of this session")
	// ErrInvalidDecision is returned for decision values other than yes/no.
	ErrInvalidDecision = errors.New("invalid decision value")
)

// MatchStore loads and persists match records. Implemented by
// services.MatchService over DynamoDB and by fakes in tests.
type MatchStore interface {
	GetMatch(ctx context.Context, matchID string) (*models.Match, error)
	SaveMatch(ctx context.Context, match *models.Match) error
}

// HelperProvider returns one conversation-helper item for a category.
type HelperProvider interface {
	Get(category string) (interface{}, error)
}

// Broadcaster fans an event out to every connection in a session room.
type Broadcaster interface {
	BroadcastToRoom(room, event string, args ...interface{})
}

// Room returns the broadcast room name for a session.
func Room(sessionID string) string {
	return "match_" + sessionID
}

type SessionPayload struct {
	SessionID string `json:"sessionId"`
}

type TickPayload struct {
	Remaining int `json:"remaining"`
	Elapsed   int `json:"elapsed"`
}

type EndedPayload struct {
	SessionID string `json:"sessionId"`
	Mutual    bool   `json:"mutual"`
	DecisionA string `json:"decisionA"`
	DecisionB string `json:"decisionB"`
}

type SkippedPayload struct {
	SessionID string `json:"sessionId"`
	SkippedBy string `json:"skippedBy"`
}

type HelperPayload struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}

// Coordinator drives a pairing through its lifecycle: join, countdown,
// decisions, extension, skip, leave, cleanup. Every transition persists the
// match record; on a failed write the in-memory session is left untouched
// and the error is surfaced to the initiating caller.
type Coordinator struct {
	Registry  *Registry
	Store     MatchStore
	Helpers   HelperProvider
	Broadcast Broadcaster

	Window time.Duration
	Tick   time.Duration

	// AutoAccept resolves a lone "yes" as mutual. Test mode only; it
	// changes the fairness semantics of mutual consent.
	AutoAccept bool
}

// NewCoordinator wires a coordinator with defaults for the timing knobs.
func NewCoordinator(registry *Registry, store MatchStore, helpers HelperProvider, broadcast Broadcaster) *Coordinator {
	return &Coordinator{
		Registry:  registry,
		Store:     store,
		Helpers:   helpers,
		Broadcast: broadcast,
		Window:    180 * time.Second,
		Tick:      time.Second,
	}
}

// Join registers userID in the session. The first join moves a pending match
// to active, sets startedAt and starts the countdown.
func (c *Coordinator) Join(ctx context.Context, sessionID, userID string) (*models.Match, error) {
	m, err := c.Store.GetMatch(ctx, sessionID)
	if err != nil {
		log.Printf("join: match %s not found: %v", sessionID, err)
		return nil, ErrSessionNotFound
	}
	if !m.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}

	release := c.Registry.LockSession(sessionID)
	defer release()
	ls := c.Registry.Join(sessionID, userID)

	// Reload under the transition lock so the transition observes the
	// latest record state.
	m, err = c.Store.GetMatch(ctx, sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if m.Status != models.MatchStatusPending {
		return m, nil
	}

	now := time.Now().UTC()
	m.Status = models.MatchStatusActive
	m.StartedAt = now.Format(time.RFC3339)
	if err := c.Store.SaveMatch(ctx, m); err != nil {
		// record stays pending and the countdown never starts
		return nil, fmt.Errorf("failed to activate session %s: %w", sessionID, err)
	}

	cd := newCountdown()
	ls.setCountdown(cd)
	go c.runCountdown(sessionID, cd, now)

	c.Broadcast.BroadcastToRoom(Room(sessionID), EventSessionStarted, SessionPayload{SessionID: sessionID})
	log.Printf("session %s started by %s", sessionID, userID)
	return m, nil
}

// SubmitDecision records a participant's yes/no and evaluates the pair.
// Mutual yes extends the match and stops the countdown; any no ends it.
// Resubmitting the same value is a no-op.
func (c *Coordinator) SubmitDecision(ctx context.Context, sessionID, userID, decision string) (*models.Match, error) {
	if decision != models.DecisionYes && decision != models.DecisionNo {
		return nil, ErrInvalidDecision
	}

	// The transition lock covers the load-modify-save even when no live
	// session exists yet, so concurrent pre-join decisions cannot lose an
	// update or miss a mutual yes.
	release := c.Registry.LockSession(sessionID)
	defer release()

	m, err := c.Store.GetMatch(ctx, sessionID)
	if err != nil {
		log.Printf("decision: match %s not found: %v", sessionID, err)
		return nil, ErrSessionNotFound
	}
	if !m.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	if m.Status == models.MatchStatusEnded {
		return m, nil
	}
	if m.DecisionOf(userID) == decision {
		return m, nil
	}

	m.SetDecision(userID, decision)
	other := m.OtherParticipant(userID)

	switch {
	case m.DecisionA == models.DecisionNo || m.DecisionB == models.DecisionNo:
		// no is absorbing regardless of any prior yes
		m.Status = models.MatchStatusEnded
		m.EndedAt = time.Now().UTC().Format(time.RFC3339)
	case m.DecisionA == models.DecisionYes && m.DecisionB == models.DecisionYes:
		m.Status = models.MatchStatusExtended
		m.Extended = true
	case c.AutoAccept && decision == models.DecisionYes && m.DecisionOf(other) == models.DecisionPending:
		// test-mode shortcut: resolve a lone yes as mutual
		m.SetDecision(other, models.DecisionYes)
		m.Status = models.MatchStatusExtended
		m.Extended = true
	}

	if err := c.Store.SaveMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save decision for session %s: %w", sessionID, err)
	}

	switch m.Status {
	case models.MatchStatusExtended:
		if ls := c.Registry.Get(sessionID); ls != nil {
			ls.stopCountdown()
		}
		c.Broadcast.BroadcastToRoom(Room(sessionID), EventSessionExtended, SessionPayload{SessionID: sessionID})
		log.Printf("session %s extended", sessionID)
	case models.MatchStatusEnded:
		c.Broadcast.BroadcastToRoom(Room(sessionID), EventSessionEnded, EndedPayload{
			SessionID: sessionID,
			Mutual:    false,
			DecisionA: m.DecisionA,
			DecisionB: m.DecisionB,
		})
		c.Registry.Destroy(sessionID)
		log.Printf("session %s ended by decision", sessionID)
	}
	return m, nil
}

// Skip ends the session immediately, forcing the skipper's decision to no.
// The skipped broadcast goes to the session room; the transport additionally
// delivers it to the skipper's own channel so it arrives even when the other
// participant never connected.
func (c *Coordinator) Skip(ctx context.Context, sessionID, userID string) (*models.Match, error) {
	release := c.Registry.LockSession(sessionID)
	defer release()

	m, err := c.Store.GetMatch(ctx, sessionID)
	if err != nil {
		log.Printf("skip: match %s not found: %v", sessionID, err)
		return nil, ErrSessionNotFound
	}
	if !m.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	if m.Status == models.MatchStatusEnded {
		return m, nil
	}

	m.SetDecision(userID, models.DecisionNo)
	m.Status = models.MatchStatusEnded
	m.EndedAt = time.Now().UTC().Format(time.RFC3339)
	if err := c.Store.SaveMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to save skip for session %s: %w", sessionID, err)
	}

	c.Broadcast.BroadcastToRoom(Room(sessionID), EventSessionSkipped, SkippedPayload{SessionID: sessionID, SkippedBy: userID})
	c.Registry.Destroy(sessionID)
	log.Printf("session %s skipped by %s", sessionID, userID)
	return m, nil
}

// Leave removes userID from the live session. When the last participant
// leaves, the session is destroyed; the match record keeps its last status.
func (c *Coordinator) Leave(sessionID, userID string) {
	if c.Registry.Get(sessionID) == nil {
		return
	}
	if empty := c.Registry.Leave(sessionID, userID); empty {
		c.Registry.Destroy(sessionID)
	}
}

// RequestHelper broadcasts a conversation helper to the session, or a
// distinct unavailable event when the category has no content, so clients
// never wait on silence.
func (c *Coordinator) RequestHelper(sessionID, category string) {
	content, err := c.Helpers.Get(category)
	if err != nil {
		log.Printf("helper: no content for category %q in session %s: %v", category, sessionID, err)
		c.Broadcast.BroadcastToRoom(Room(sessionID), EventHelperUnavailable, HelperPayload{Type: category})
		return
	}
	c.Broadcast.BroadcastToRoom(Room(sessionID), EventHelperDelivered, HelperPayload{Type: category, Content: content})
}

// runCountdown ticks once per interval, broadcasting remaining time and
// firing the timeout transition exactly once. Each tick verifies it is still
// the registered countdown so a cancelled timer never acts again.
func (c *Coordinator) runCountdown(sessionID string, cd *Countdown, start time.Time) {
	ticker := time.NewTicker(c.Tick)
	defer ticker.Stop()
	window := int(c.Window / time.Second)

	for {
		select {
		case <-cd.Done():
			return
		case now := <-ticker.C:
			release := c.Registry.LockSession(sessionID)
			ls := c.Registry.Get(sessionID)
			if ls == nil {
				release()
				cd.Stop()
				return
			}
			if ls.Countdown() != cd {
				release()
				cd.Stop()
				return
			}
			select {
			case <-cd.Done():
				release()
				return
			default:
			}

			elapsed := int(now.Sub(start) / time.Second)
			remaining := window - elapsed
			c.Broadcast.BroadcastToRoom(Room(sessionID), EventSessionTick, TickPayload{Remaining: remaining, Elapsed: elapsed})

			if remaining <= 0 {
				cd.Stop()
				release()
				c.timeout(sessionID, cd)
				return
			}
			release()
		}
	}
}

// timeout ends a still-active match whose window ran out.
func (c *Coordinator) timeout(sessionID string, cd *Countdown) {
	release := c.Registry.LockSession(sessionID)
	defer release()

	ls := c.Registry.Get(sessionID)
	if ls == nil || ls.Countdown() != cd {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	m, err := c.Store.GetMatch(ctx, sessionID)
	if err != nil {
		log.Printf("timeout: match %s not found: %v", sessionID, err)
		c.Registry.Destroy(sessionID)
		return
	}
	if m.Status != models.MatchStatusActive {
		return
	}

	m.Status = models.MatchStatusEnded
	m.EndedAt = time.Now().UTC().Format(time.RFC3339)
	if err := c.Store.SaveMatch(ctx, m); err != nil {
		// leave the record for the stale sweep; the live session is done
		log.Printf("timeout: failed to save match %s: %v", sessionID, err)
		c.Registry.Destroy(sessionID)
		return
	}

	c.Broadcast.BroadcastToRoom(Room(sessionID), EventSessionTimedOut, SessionPayload{SessionID: sessionID})
	c.Registry.Destroy(sessionID)
	log.Printf("session %s timed out", sessionID)
}
