// Package realtime tracks live websocket connections per user and fans events
// out to them.
package realtime

import (
	"sync"

	"socialchat/internal/metrics"
)

// Conn is a live connection as seen by the registry and dispatcher.
type Conn interface {
	ID() string
	UserID() uint
	// Send enqueues a frame without blocking; false means the frame was not
	// accepted because the queue is full or the connection is closed.
	Send(frame []byte) bool
	Close()
}

// Registry maps a user to the set of their live connections. A user may hold
// several connections at once (multi-device).
type Registry struct {
	mu    sync.RWMutex
	users map[uint]map[string]Conn
	count int
}

func NewRegistry() *Registry {
	return &Registry{users: make(map[uint]map[string]Conn)}
}

func (r *Registry) Add(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conns := r.users[c.UserID()]
	if conns == nil {
		conns = make(map[string]Conn)
		r.users[c.UserID()] = conns
	}
	if _, exists := conns[c.ID()]; exists {
		return
	}
	conns[c.ID()] = c
	r.count++
	metrics.RealtimeConnections.Inc()
}

// Remove is idempotent; it reports whether c was registered.
func (r *Registry) Remove(c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	conns, ok := r.users[c.UserID()]
	if !ok {
		return false
	}
	if _, ok := conns[c.ID()]; !ok {
		return false
	}
	delete(conns, c.ID())
	if len(conns) == 0 {
		delete(r.users, c.UserID())
	}
	r.count--
	metrics.RealtimeConnections.Dec()
	return true
}

// Connections returns a snapshot so callers can send without holding the lock.
func (r *Registry) Connections(userID uint) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := r.users[userID]
	out := make([]Conn, 0, len(conns))
	for _, c := range conns {
		out = append(out, c)
	}
	return out
}

func (r *Registry) Online(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID]) > 0
}

// Count is the total number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// CloseAll closes every connection; used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.RLock()
	var all []Conn
	for _, conns := range r.users {
		for _, c := range conns {
			all = append(all, c)
		}
	}
	r.mu.RUnlock()
	for _, c := range all {
		c.Close()
	}
}
