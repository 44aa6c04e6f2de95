package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"blink_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu       sync.Mutex
	matches  map[string]models.Match
	failSave bool
	saves    int

	// onLoad, when set before any concurrency starts, runs at the top of
	// every GetMatch to widen the load-modify-save window.
	onLoad func()
}

func newFakeStore(matches ...models.Match) *fakeStore {
	s := &fakeStore{matches: make(map[string]models.Match)}
	for _, m := range matches {
		s.matches[m.MatchID] = m
	}
	return s
}

func (s *fakeStore) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	if s.onLoad != nil {
		s.onLoad()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, errors.New("match not found")
	}
	copied := m
	return &copied, nil
}

func (s *fakeStore) SaveMatch(ctx context.Context, match *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errors.New("write failed")
	}
	s.saves++
	s.matches[match.MatchID] = *match
	return nil
}

func (s *fakeStore) get(matchID string) models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches[matchID]
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *fakeStore) setFailSave(fail bool) {
	s.mu.Lock()
	s.failSave = fail
	s.mu.Unlock()
}

type broadcastEvent struct {
	Room  string
	Event string
	Args  []interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *fakeBroadcaster) BroadcastToRoom(room, event string, args ...interface{}) {
	b.mu.Lock()
	b.events = append(b.events, broadcastEvent{Room: room, Event: event, Args: args})
	b.mu.Unlock()
}

func (b *fakeBroadcaster) count(event string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

func (b *fakeBroadcaster) last(event string) (broadcastEvent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.events) - 1; i >= 0; i-- {
		if b.events[i].Event == event {
			return b.events[i], true
		}
	}
	return broadcastEvent{}, false
}

type fakeHelpers struct {
	content interface{}
	err     error
}

func (h *fakeHelpers) Get(category string) (interface{}, error) {
	return h.content, h.err
}

func pendingMatch(id string) models.Match {
	return models.Match{
		MatchID:      id,
		ParticipantA: "alice",
		ParticipantB: "bob",
		Status:       models.MatchStatusPending,
		DecisionA:    models.DecisionPending,
		DecisionB:    models.DecisionPending,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

func newTestCoordinator(store *fakeStore) (*Coordinator, *fakeBroadcaster) {
	b := &fakeBroadcaster{}
	c := NewCoordinator(NewRegistry(), store, &fakeHelpers{content: "talk about travel"}, b)
	c.Window = time.Second
	c.Tick = 20 * time.Millisecond
	return c, b
}

func TestJoinActivatesPendingMatch(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, b := newTestCoordinator(store)
	defer c.Registry.Destroy("m1")

	m, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusActive, m.Status)
	assert.NotEmpty(t, m.StartedAt)
	assert.Equal(t, models.MatchStatusActive, store.get("m1").Status)
	assert.Equal(t, 1, b.count(EventSessionStarted))
	assert.NotNil(t, c.Registry.Get("m1"))
}

func TestJoinSecondParticipantDoesNotRestart(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, b := newTestCoordinator(store)
	defer c.Registry.Destroy("m1")

	_, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)
	_, err = c.Join(context.Background(), "m1", "bob")
	require.NoError(t, err)

	assert.Equal(t, 1, b.count(EventSessionStarted))
	assert.Equal(t, 2, c.Registry.Get("m1").Participants())
}

func TestJoinUnknownSession(t *testing.T) {
	c, _ := newTestCoordinator(newFakeStore())

	_, err := c.Join(context.Background(), "nope", "alice")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Nil(t, c.Registry.Get("nope"))
}

func TestJoinRejectsStranger(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, _ := newTestCoordinator(store)

	_, err := c.Join(context.Background(), "m1", "mallory")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestJoinSaveFailureLeavesMatchPending(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	store.setFailSave(true)
	c, b := newTestCoordinator(store)
	defer c.Registry.Destroy("m1")

	_, err := c.Join(context.Background(), "m1", "alice")
	require.Error(t, err)

	assert.Equal(t, models.MatchStatusPending, store.get("m1").Status)
	assert.Equal(t, 0, b.count(EventSessionStarted))
	assert.Nil(t, c.Registry.Get("m1").Countdown())
}

func TestMutualYesExtends(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, b := newTestCoordinator(store)
	defer c.Registry.Destroy("m1")

	_, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)

	m, err := c.SubmitDecision(context.Background(), "m1", "alice", models.DecisionYes)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusActive, m.Status)

	m, err = c.SubmitDecision(context.Background(), "m1", "bob", models.DecisionYes)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusExtended, m.Status)
	assert.True(t, m.Extended)
	assert.Equal(t, 1, b.count(EventSessionExtended))

	// the countdown must never fire again after extension
	ticks := b.count(EventSessionTick)
	time.Sleep(5 * c.Tick)
	assert.Equal(t, ticks, b.count(EventSessionTick))
	assert.Equal(t, 0, b.count(EventSessionTimedOut))
}

func TestNoIsAbsorbing(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, b := newTestCoordinator(store)
	defer c.Registry.Destroy("m1")

	_, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)

	_, err = c.SubmitDecision(context.Background(), "m1", "bob", models.DecisionYes)
	require.NoError(t, err)
	m, err := c.SubmitDecision(context.Background(), "m1", "alice", models.DecisionNo)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusEnded, m.Status)
	assert.NotEmpty(t, m.EndedAt)
	ended, ok := b.last(EventSessionEnded)
	require.True(t, ok)
	payload := ended.Args[0].(EndedPayload)
	assert.False(t, payload.Mutual)
	assert.Equal(t, models.DecisionNo, payload.DecisionA)
	assert.Equal(t, models.DecisionYes, payload.DecisionB)
	assert.Nil(t, c.Registry.Get("m1"))
}

func TestNoEndsExtendedMatch(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, _ := newTestCoordinator(store)
	defer c.Registry.Destroy("m1")

	_, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)
	_, err = c.SubmitDecision(context.Background(), "m1", "alice", models.DecisionYes)
	require.NoError(t, err)
	_, err = c.SubmitDecision(context.Background(), "m1", "bob", models.DecisionYes)
	require.NoError(t, err)

	m, err := c.SubmitDecision(context.Background(), "m1", "bob", models.DecisionNo)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusEnded, m.Status)
}

func TestDecisionIdempotent(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, b := newTestCoordinator(store)
	defer c.Registry.Destroy("m1")

	_, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)

	_, err = c.SubmitDecision(context.Background(), "m1", "alice", models.DecisionYes)
	require.NoError(t, err)
	savesAfterFirst := store.saveCount()

	_, err = c.SubmitDecision(context.Background(), "m1", "alice", models.DecisionYes)
	require.NoError(t, err)

	assert.Equal(t, savesAfterFirst, store.saveCount())
	assert.Equal(t, 0, b.count(EventSessionExtended))
	assert.Equal(t, 0, b.count(EventSessionEnded))
}

func TestConcurrentDecisionsBeforeJoinSerialize(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	store.onLoad = func() { time.Sleep(20 * time.Millisecond) }
	c, b := newTestCoordinator(store)

	// Neither participant has joined, so no live session exists. Both
	// decisions must still serialize on the session's transition lock;
	// otherwise one yes overwrites the other and the mutual extension is
	// never detected.
	start := make(chan struct{})
	var wg sync.WaitGroup
	for _, user := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			<-start
			_, err := c.SubmitDecision(context.Background(), "m1", u, models.DecisionYes)
			assert.NoError(t, err)
		}(user)
	}
	close(start)
	wg.Wait()

	m := store.get("m1")
	assert.Equal(t, models.DecisionYes, m.DecisionA)
	assert.Equal(t, models.DecisionYes, m.DecisionB)
	assert.Equal(t, models.MatchStatusExtended, m.Status)
	assert.True(t, m.Extended)
	assert.Equal(t, 1, b.count(EventSessionExtended))
}

func TestConcurrentSkipAndDecisionSerialize(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	store.onLoad = func() { time.Sleep(20 * time.Millisecond) }
	c, _ := newTestCoordinator(store)

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-start
		_, err := c.SubmitDecision(context.Background(), "m1", "alice", models.DecisionYes)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		<-start
		_, err := c.Skip(context.Background(), "m1", "bob")
		assert.NoError(t, err)
	}()
	close(start)
	wg.Wait()

	// Whichever ran first, the skip's no must survive and the record ends.
	m := store.get("m1")
	assert.Equal(t, models.MatchStatusEnded, m.Status)
	assert.Equal(t, models.DecisionNo, m.DecisionB)
}

func TestDecisionValidation(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, _ := newTestCoordinator(store)

	_, err := c.SubmitDecision(context.Background(), "m1", "alice", "maybe")
	assert.ErrorIs(t, err, ErrInvalidDecision)

	_, err = c.SubmitDecision(context.Background(), "m1", "mallory", models.DecisionYes)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = c.SubmitDecision(context.Background(), "nope", "alice", models.DecisionYes)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDecisionSaveFailureRollsBack(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, b := newTestCoordinator(store)
	defer c.Registry.Destroy("m1")

	_, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)

	store.setFailSave(true)
	_, err = c.SubmitDecision(context.Background(), "m1", "alice", models.DecisionNo)
	require.Error(t, err)

	assert.Equal(t, models.DecisionPending, store.get("m1").DecisionA)
	assert.Equal(t, models.MatchStatusActive, store.get("m1").Status)
	assert.Equal(t, 0, b.count(EventSessionEnded))
	assert.NotNil(t, c.Registry.Get("m1"))

	// the client can retry once the store recovers
	store.setFailSave(false)
	m, err := c.SubmitDecision(context.Background(), "m1", "alice", models.DecisionNo)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusEnded, m.Status)
}

func TestAutoAcceptResolvesLoneYes(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, _ := newTestCoordinator(store)
	c.AutoAccept = true
	defer c.Registry.Destroy("m1")

	_, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)

	m, err := c.SubmitDecision(context.Background(), "m1", "alice", models.DecisionYes)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusExtended, m.Status)
	assert.Equal(t, models.DecisionYes, m.DecisionB)
}

func TestLoneYesDoesNotResolveByDefault(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, b := newTestCoordinator(store)
	defer c.Registry.Destroy("m1")

	_, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)

	m, err := c.SubmitDecision(context.Background(), "m1", "alice", models.DecisionYes)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusActive, m.Status)
	assert.Equal(t, models.DecisionPending, m.DecisionB)
	assert.Equal(t, 0, b.count(EventSessionExtended))
}

func TestSkipForcesNoAndEnds(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, b := newTestCoordinator(store)
	defer c.Registry.Destroy("m1")

	_, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)

	m, err := c.Skip(context.Background(), "m1", "alice")
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusEnded, m.Status)
	assert.Equal(t, models.DecisionNo, m.DecisionA)
	assert.NotEmpty(t, m.EndedAt)
	skipped, ok := b.last(EventSessionSkipped)
	require.True(t, ok)
	assert.Equal(t, "alice", skipped.Args[0].(SkippedPayload).SkippedBy)
	assert.Nil(t, c.Registry.Get("m1"))
}

func TestSkipWorksWithoutLiveSession(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, _ := newTestCoordinator(store)

	m, err := c.Skip(context.Background(), "m1", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusEnded, m.Status)
	assert.Equal(t, models.DecisionNo, m.DecisionB)
}

func TestCountdownTimesOut(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, b := newTestCoordinator(store)
	c.Window = time.Second

	_, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return store.get("m1").Status == models.MatchStatusEnded
	}, 3*time.Second, 20*time.Millisecond)

	assert.Greater(t, b.count(EventSessionTick), 0)
	assert.Equal(t, 1, b.count(EventSessionTimedOut))
	assert.Equal(t, models.DecisionPending, store.get("m1").DecisionA)
	assert.Equal(t, models.DecisionPending, store.get("m1").DecisionB)
	assert.Nil(t, c.Registry.Get("m1"))

	// the timeout fires exactly once
	time.Sleep(5 * c.Tick)
	assert.Equal(t, 1, b.count(EventSessionTimedOut))
}

func TestLeaveDestroysEmptySession(t *testing.T) {
	store := newFakeStore(pendingMatch("m1"))
	c, b := newTestCoordinator(store)

	_, err := c.Join(context.Background(), "m1", "alice")
	require.NoError(t, err)
	_, err = c.Join(context.Background(), "m1", "bob")
	require.NoError(t, err)

	c.Leave("m1", "alice")
	assert.NotNil(t, c.Registry.Get("m1"))

	c.Leave("m1", "bob")
	assert.Nil(t, c.Registry.Get("m1"))

	// record keeps its last status and the countdown is gone
	assert.Equal(t, models.MatchStatusActive, store.get("m1").Status)
	ticks := b.count(EventSessionTick)
	time.Sleep(5 * c.Tick)
	assert.Equal(t, ticks, b.count(EventSessionTick))
}

func TestLeaveUnknownSessionIsNoOp(t *testing.T) {
	c, _ := newTestCoordinator(newFakeStore())
	c.Leave("nope", "alice")
}

func TestRequestHelperDelivered(t *testing.T) {
	c, b := newTestCoordinator(newFakeStore())

	c.RequestHelper("m1", "topic")

	delivered, ok := b.last(EventHelperDelivered)
	require.True(t, ok)
	payload := delivered.Args[0].(HelperPayload)
	assert.Equal(t, "topic", payload.Type)
	assert.Equal(t, "talk about travel", payload.Content)
}

func TestRequestHelperUnavailable(t *testing.T) {
	store := newFakeStore()
	b := &fakeBroadcaster{}
	c := NewCoordinator(NewRegistry(), store, &fakeHelpers{err: errors.New("no content available")}, b)

	c.RequestHelper("m1", "icebreaker")

	assert.Equal(t, 0, b.count(EventHelperDelivered))
	unavailable, ok := b.last(EventHelperUnavailable)
	require.True(t, ok)
	assert.Equal(t, "icebreaker", unavailable.Args[0].(HelperPayload).Type)
}
