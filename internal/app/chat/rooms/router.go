// internal/app/chat/rooms/router.go

// Package rooms maintains branch-scoped room membership and multicasts
// events to room members.
package rooms

import (
	"sync"

	"github.com/campuschat/campuschat/internal/app/chat/protocol"
)

// Sender delivers one outbound event to a connection. The real
// transport enqueues to a bounded per-connection channel; tests use
// recording fakes. Send must not block the caller indefinitely.
type Sender interface {
	Send(ev protocol.ServerEvent)
}

// Router tracks which connections are members of which branch rooms.
// A connection may only be a member of rooms it explicitly joined.
// All methods are safe for concurrent use.
type Router struct {
	mu      sync.RWMutex
	senders map[string]Sender          // connID -> transport
	rooms   map[string]map[string]bool // branch -> set of connIDs
	joined  map[string]map[string]bool // connID -> set of branches
}

// New returns an empty Router.
func New() *Router {
	return &Router{
		senders: make(map[string]Sender),
		rooms:   make(map[string]map[string]bool),
		joined:  make(map[string]map[string]bool),
	}
}

// Register adds a connection to the global roster so it receives
// all-connection broadcasts. It must be called before Join.
func (rt *Router) Register(connID string, s Sender) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.senders[connID] = s
}

// Unregister removes the connection from the roster and from every
// room it joined. Idempotent.
func (rt *Router) Unregister(connID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	delete(rt.senders, connID)
	for branch := range rt.joined[connID] {
		rt.removeMember(branch, connID)
	}
	delete(rt.joined, connID)
}

// Join adds the connection to the named room. Unknown connections are
// ignored.
func (rt *Router) Join(connID, branch string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, ok := rt.senders[connID]; !ok {
		return
	}
	if rt.rooms[branch] == nil {
		rt.rooms[branch] = make(map[string]bool)
	}
	rt.rooms[branch][connID] = true
	if rt.joined[connID] == nil {
		rt.joined[connID] = make(map[string]bool)
	}
	rt.joined[connID][branch] = true
}

// Leave removes the connection from the named room. Idempotent when
// the connection is not a member.
func (rt *Router) Leave(connID, branch string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.removeMember(branch, connID)
	if set := rt.joined[connID]; set != nil {
		delete(set, branch)
		if len(set) == 0 {
			delete(rt.joined, connID)
		}
	}
}

// removeMember drops connID from a room's member set. Caller holds mu.
func (rt *Router) removeMember(branch, connID string) {
	if set := rt.rooms[branch]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(rt.rooms, branch)
		}
	}
}

// Broadcast hands ev to every current member of branch. The event is
// enqueued to all members before Broadcast returns; delivery order
// across members is unspecified.
func (rt *Router) Broadcast(branch string, ev protocol.ServerEvent) {
	rt.broadcast(branch, ev, "")
}

// BroadcastExcept is Broadcast minus one connection. Used for typing
// indicators so the sender does not receive its own echo.
func (rt *Router) BroadcastExcept(branch string, ev protocol.ServerEvent, excludeConnID string) {
	rt.broadcast(branch, ev, excludeConnID)
}

func (rt *Router) broadcast(branch string, ev protocol.ServerEvent, exclude string) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	for connID := range rt.rooms[branch] {
		if connID == exclude {
			continue
		}
		if s, ok := rt.senders[connID]; ok {
			s.Send(ev)
		}
	}
}

// BroadcastAll hands ev to every registered connection regardless of
// room membership. Used for presence transitions and global receipt
// events.
func (rt *Router) BroadcastAll(ev protocol.ServerEvent) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	for _, s := range rt.senders {
		s.Send(ev)
	}
}

// MemberCount returns the number of connections in branch.
func (rt *Router) MemberCount(branch string) int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return len(rt.rooms[branch])
}
