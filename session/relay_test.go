package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmitter struct {
	mu     sync.Mutex
	events []string
	args   []interface{}
}

func (e *fakeEmitter) Emit(event string, args ...interface{}) {
	e.mu.Lock()
	e.events = append(e.events, event)
	e.args = append(e.args, args...)
	e.mu.Unlock()
}

func TestForwardDeliversToBoundUser(t *testing.T) {
	r := NewRelay()
	bob := &fakeEmitter{}
	r.Bind("bob", bob)

	ok := r.Forward("bob", "signal:offer", map[string]string{"sdp": "v=0"})

	require.True(t, ok)
	require.Len(t, bob.events, 1)
	assert.Equal(t, "signal:offer", bob.events[0])
}

func TestForwardDropsUnboundUser(t *testing.T) {
	r := NewRelay()

	ok := r.Forward("nobody", "signal:answer", nil)

	assert.False(t, ok)
}

func TestBindReplacesPriorChannel(t *testing.T) {
	r := NewRelay()
	old := &fakeEmitter{}
	fresh := &fakeEmitter{}

	r.Bind("alice", old)
	r.Bind("alice", fresh)
	r.Forward("alice", "signal:iceCandidate", nil)

	assert.Empty(t, old.events)
	assert.Len(t, fresh.events, 1)
}

func TestUnbindStopsDelivery(t *testing.T) {
	r := NewRelay()
	alice := &fakeEmitter{}
	r.Bind("alice", alice)
	require.True(t, r.IsBound("alice"))

	r.Unbind("alice")

	assert.False(t, r.IsBound("alice"))
	assert.False(t, r.Forward("alice", "signal:offer", nil))
	assert.Empty(t, alice.events)
}
