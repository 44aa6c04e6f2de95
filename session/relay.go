package session

import (
	"log"
	"sync"
)

// Emitter is the send side of one connected user's channel. Satisfied by
// socket.io connections.
type Emitter interface {
	Emit(event string, args ...interface{})
}

// Relay forwards opaque signaling payloads between connected users. Payloads
// are never inspected; a missing recipient binding drops the message, which
// is fine because the media layer has its own liveness checks.
type Relay struct {
	mu    sync.RWMutex
	conns map[string]Emitter
}

func NewRelay() *Relay {
	return &Relay{conns: make(map[string]Emitter)}
}

// Bind associates userID with a channel, replacing any prior binding.
func (r *Relay) Bind(userID string, e Emitter) {
	r.mu.Lock()
	r.conns[userID] = e
	r.mu.Unlock()
}

// Unbind removes the binding for userID, if any.
func (r *Relay) Unbind(userID string) {
	r.mu.Lock()
	delete(r.conns, userID)
	r.mu.Unlock()
}

// IsBound reports whether userID currently has a channel.
func (r *Relay) IsBound(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[userID]
	return ok
}

// Forward delivers payload to the recipient's channel if bound and reports
// whether delivery was attempted. The sender is never notified of a miss.
func (r *Relay) Forward(toUserID, event string, payload interface{}) bool {
	r.mu.RLock()
	e, ok := r.conns[toUserID]
	r.mu.RUnlock()

	if !ok {
		log.Printf("relay: no channel bound for %s, dropping %s", toUserID, event)
		return false
	}
	e.Emit(event, payload)
	return true
}
