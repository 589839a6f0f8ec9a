package rooms_test

import (
	"sync"
	"testing"

	"github.com/campuschat/campuschat/internal/app/chat/protocol"
	"github.com/campuschat/campuschat/internal/app/chat/rooms"
)

// recorder is a Sender that captures every event it receives.
type recorder struct {
	mu     sync.Mutex
	events []protocol.ServerEvent
}

func (r *recorder) Send(ev protocol.ServerEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *recorder) last() protocol.ServerEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func TestBroadcast_OnlyReachesRoomMembers(t *testing.T) {
	rt := rooms.New()
	civil1, civil2, mech := &recorder{}, &recorder{}, &recorder{}

	rt.Register("c1", civil1)
	rt.Register("c2", civil2)
	rt.Register("c3", mech)
	rt.Join("c1", "civil")
	rt.Join("c2", "civil")
	rt.Join("c3", "mechanical")

	rt.Broadcast("civil", protocol.ServerEvent{Event: protocol.EventMessageNew})

	if civil1.count() != 1 || civil2.count() != 1 {
		t.Errorf("civil members got %d/%d events, want 1/1", civil1.count(), civil2.count())
	}
	if mech.count() != 0 {
		t.Errorf("mechanical member got %d events, want 0", mech.count())
	}
}

func TestBroadcastExcept_SkipsSender(t *testing.T) {
	rt := rooms.New()
	a, b := &recorder{}, &recorder{}

	rt.Register("c1", a)
	rt.Register("c2", b)
	rt.Join("c1", "civil")
	rt.Join("c2", "civil")

	rt.BroadcastExcept("civil", protocol.ServerEvent{Event: protocol.EventTyping}, "c1")

	if a.count() != 0 {
		t.Errorf("excluded connection got %d events, want 0", a.count())
	}
	if b.count() != 1 {
		t.Errorf("other member got %d events, want 1", b.count())
	}
}

func TestBroadcastAll_ReachesEveryConnection(t *testing.T) {
	rt := rooms.New()
	a, b := &recorder{}, &recorder{}

	rt.Register("c1", a)
	rt.Register("c2", b)
	rt.Join("c1", "civil")
	// c2 never joined a room.

	rt.BroadcastAll(protocol.ServerEvent{Event: protocol.EventUserOnline})

	if a.count() != 1 || b.count() != 1 {
		t.Errorf("got %d/%d events, want 1/1", a.count(), b.count())
	}
}

func TestLeave_Idempotent(t *testing.T) {
	rt := rooms.New()
	a := &recorder{}

	rt.Register("c1", a)
	rt.Join("c1", "civil")
	rt.Leave("c1", "civil")
	rt.Leave("c1", "civil")
	rt.Leave("c1", "never-joined")

	rt.Broadcast("civil", protocol.ServerEvent{Event: protocol.EventMessageNew})
	if a.count() != 0 {
		t.Errorf("left member got %d events, want 0", a.count())
	}
}

func TestUnregister_RemovesFromAllRooms(t *testing.T) {
	rt := rooms.New()
	a := &recorder{}

	rt.Register("c1", a)
	rt.Join("c1", "civil")
	rt.Join("c1", "mechanical")
	rt.Unregister("c1")

	rt.Broadcast("civil", protocol.ServerEvent{Event: protocol.EventMessageNew})
	rt.Broadcast("mechanical", protocol.ServerEvent{Event: protocol.EventMessageNew})
	rt.BroadcastAll(protocol.ServerEvent{Event: protocol.EventUserOffline})

	if a.count() != 0 {
		t.Errorf("unregistered connection got %d events, want 0", a.count())
	}
	if rt.MemberCount("civil") != 0 || rt.MemberCount("mechanical") != 0 {
		t.Error("unregistered connection still counted as room member")
	}
}

func TestJoin_UnregisteredConnectionIgnored(t *testing.T) {
	rt := rooms.New()
	rt.Join("ghost", "civil")

	if rt.MemberCount("civil") != 0 {
		t.Error("joining before Register should be ignored")
	}
}
