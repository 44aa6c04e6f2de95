package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinCreatesSingleSession(t *testing.T) {
	r := NewRegistry()

	first := r.Join("m1", "alice")
	second := r.Join("m1", "bob")

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 2, first.Participants())
}

func TestJoinIsIdempotentPerUser(t *testing.T) {
	r := NewRegistry()

	r.Join("m1", "alice")
	ls := r.Join("m1", "alice")

	assert.Equal(t, 1, ls.Participants())
}

func TestConcurrentJoinsLandOnOneSession(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.Join("m1", fmt.Sprintf("user-%d", n))
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, r.Len())
	assert.Equal(t, 50, r.Get("m1").Participants())
}

func TestLeaveReportsEmpty(t *testing.T) {
	r := NewRegistry()
	r.Join("m1", "alice")
	r.Join("m1", "bob")

	empty := r.Leave("m1", "alice")
	assert.False(t, empty)

	empty = r.Leave("m1", "bob")
	assert.True(t, empty)
}

func TestDestroyStopsCountdown(t *testing.T) {
	r := NewRegistry()
	ls := r.Join("m1", "alice")

	cd := newCountdown()
	ls.setCountdown(cd)

	r.Destroy("m1")

	assert.Nil(t, r.Get("m1"))
	select {
	case <-cd.Done():
	case <-time.After(time.Second):
		t.Fatal("countdown was not cancelled")
	}

	// destroying twice is a no-op
	r.Destroy("m1")
}

func TestLockSessionSerializesAcrossHolders(t *testing.T) {
	r := NewRegistry()
	release := r.LockSession("m1")

	acquired := make(chan struct{})
	done := make(chan struct{})
	go func() {
		rel := r.LockSession("m1")
		close(acquired)
		rel()
		close(done)
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second holder never acquired after release")
	}

	// entries are reference counted away once released
	r.lkMu.Lock()
	remaining := len(r.locks)
	r.lkMu.Unlock()
	assert.Equal(t, 0, remaining)
}

func TestLockSessionIndependentPerSession(t *testing.T) {
	r := NewRegistry()
	release := r.LockSession("m1")
	defer release()

	other := make(chan struct{})
	go func() {
		rel := r.LockSession("m2")
		rel()
		close(other)
	}()

	select {
	case <-other:
	case <-time.After(time.Second):
		t.Fatal("lock for a different session blocked")
	}
}

func TestCountdownStopIsIdempotent(t *testing.T) {
	cd := newCountdown()
	cd.Stop()
	cd.Stop()

	select {
	case <-cd.Done():
	default:
		t.Fatal("countdown should be done after Stop")
	}
}
