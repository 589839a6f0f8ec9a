// internal/app/chat/presence/registry.go

// Package presence tracks which users are currently reachable and
// through how many live connections.
//
// Online/offline is a derived property: a user is online iff their
// connection set is non-empty. The registry never holds a user entry
// with an empty set; the entry is removed when the last connection
// closes.
package presence

import (
	"sync"
	"time"
)

type connection struct {
	userID string
	name   string
}

// Departure describes a user whose last connection just closed.
type Departure struct {
	UserID   string
	Name     string
	LastSeen time.Time
}

// Registry is an in-memory map of user identity to active connections.
// All methods are safe for concurrent use and never block on I/O.
// Construct a fresh instance per server (or per test) with New.
type Registry struct {
	mu    sync.Mutex
	conns map[string]connection     // connID -> owner
	users map[string]map[string]bool // userID -> set of connIDs
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		conns: make(map[string]connection),
		users: make(map[string]map[string]bool),
	}
}

// AddConnection registers connID under userID. It reports whether this
// was the user's first active connection (the became-online transition).
func (r *Registry) AddConnection(connID, userID, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[connID] = connection{userID: userID, name: name}

	set, ok := r.users[userID]
	if !ok {
		set = make(map[string]bool)
		r.users[userID] = set
	}
	set[connID] = true
	return !ok
}

// RemoveConnection removes connID from its owning user. The returned
// bool reports the became-offline transition: true iff this was the
// user's last connection. Removing an unknown connection is a no-op.
func (r *Registry) RemoveConnection(connID string) (Departure, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connID]
	if !ok {
		return Departure{}, false
	}
	delete(r.conns, connID)

	set := r.users[conn.userID]
	delete(set, connID)
	if len(set) > 0 {
		return Departure{}, false
	}

	delete(r.users, conn.userID)
	return Departure{
		UserID:   conn.userID,
		Name:     conn.name,
		LastSeen: time.Now().UTC(),
	}, true
}

// IsOnline reports whether userID has at least one active connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users[userID]) > 0
}

// OnlineUserIDs returns the userIDs with at least one active
// connection. Used to compute delivery fan-out at send time.
func (r *Registry) OnlineUserIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids
}

// Lookup returns the identity bound to connID.
func (r *Registry) Lookup(connID string) (userID, name string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connID]
	return conn.userID, conn.name, ok
}

// ConnectionCount returns the number of active connections for userID.
func (r *Registry) ConnectionCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users[userID])
}
