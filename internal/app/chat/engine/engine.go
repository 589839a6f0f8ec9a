// internal/app/chat/engine/engine.go

// Package engine is the messaging protocol state machine. It binds
// client events to presence registry, room router, and message store
// effects, and emits the resulting broadcasts.
package engine

import (
	"context"

	"github.com/campuschat/campuschat/internal/app/chat/presence"
	"github.com/campuschat/campuschat/internal/app/chat/protocol"
	"github.com/campuschat/campuschat/internal/app/chat/rooms"
	"github.com/campuschat/campuschat/internal/app/system/sanitize"
	"github.com/campuschat/campuschat/internal/app/system/timeouts"
	"github.com/campuschat/campuschat/internal/domain/models"
	"go.uber.org/zap"
)

// MessageStore is the persistence boundary for chat messages. Append
// operations have set semantics and treat unknown message ids as
// successful no-ops; the store must never record the message's own
// sender in its delivered/read sets.
type MessageStore interface {
	Create(ctx context.Context, branch string, sender models.Sender, text, clientMsgID string) (models.Message, error)
	AppendDeliveredTo(ctx context.Context, messageID string, userIDs []string) error
	AppendReadBy(ctx context.Context, messageID, userID string) error
}

// Engine dispatches client events. It owns no goroutines: handlers run
// on the calling connection's goroutine and persistence awaits inline,
// so two sends may broadcast in either order relative to arrival.
// In-memory state (registry, router) mutates atomically and never
// waits on I/O.
type Engine struct {
	store    MessageStore
	presence *presence.Registry
	rooms    *rooms.Router
	log      *zap.Logger
}

// New constructs an Engine over the given collaborators.
func New(store MessageStore, reg *presence.Registry, router *rooms.Router, log *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		presence: reg,
		rooms:    router,
		log:      log,
	}
}

// Connect adds a new transport connection to the router roster so it
// receives broadcasts. The connection carries no identity until its
// Join event arrives.
func (e *Engine) Connect(connID string, s rooms.Sender) {
	e.rooms.Register(connID, s)
}

// Dispatch runs one client event to completion. Validation failures
// drop the event silently; persistence failures are logged and the
// event is dropped without touching in-memory state.
func (e *Engine) Dispatch(ctx context.Context, connID string, ev Event) {
	switch ev := ev.(type) {
	case Join:
		e.handleJoin(connID, ev)
	case JoinBranch:
		e.handleJoinBranch(connID, ev)
	case Typing:
		e.rooms.BroadcastExcept(ev.Branch, protocol.ServerEvent{
			Event: protocol.EventTyping,
			Data:  protocol.TypingPayload{Branch: ev.Branch, UserID: ev.UserID, Name: ev.Name},
		}, connID)
	case StopTyping:
		e.rooms.BroadcastExcept(ev.Branch, protocol.ServerEvent{
			Event: protocol.EventStopTyping,
			Data:  protocol.TypingPayload{Branch: ev.Branch, UserID: ev.UserID},
		}, connID)
	case SendMessage:
		e.handleSendMessage(ctx, ev)
	case AckDelivered:
		e.handleAckDelivered(ctx, ev)
	case Read:
		e.handleRead(ctx, ev)
	case Disconnect:
		e.handleDisconnect(connID)
	}
}

func (e *Engine) handleJoin(connID string, ev Join) {
	if ev.UserID == "" {
		return
	}
	becameOnline := e.presence.AddConnection(connID, ev.UserID, ev.Name)
	if !becameOnline {
		return
	}
	e.rooms.BroadcastAll(protocol.ServerEvent{
		Event: protocol.EventUserOnline,
		Data:  protocol.UserOnlinePayload{UserID: ev.UserID, Name: ev.Name},
	})
}

func (e *Engine) handleJoinBranch(connID string, ev JoinBranch) {
	if ev.Branch == "" {
		return
	}
	e.rooms.Join(connID, ev.Branch)
}

func (e *Engine) handleSendMessage(ctx context.Context, ev SendMessage) {
	if ev.Branch == "" || ev.UserID == "" {
		return
	}
	text := sanitize.Text(ev.Text)
	if text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	sender := models.Sender{ID: ev.UserID, Name: ev.Name}
	msg, err := e.store.Create(ctx, ev.Branch, sender, text, ev.ClientMsgID)
	if err != nil {
		e.log.Error("persist message failed",
			zap.String("branch", ev.Branch),
			zap.String("user_id", ev.UserID),
			zap.Error(err))
		return
	}

	e.rooms.Broadcast(ev.Branch, protocol.NewMessageEvent(msg))

	// Best-effort delivery accounting: snapshot of users reachable at
	// send time, excluding the sender.
	var fanout []string
	for _, id := range e.presence.OnlineUserIDs() {
		if id != ev.UserID {
			fanout = append(fanout, id)
		}
	}
	if len(fanout) == 0 {
		return
	}

	if err := e.store.AppendDeliveredTo(ctx, msg.ID.Hex(), fanout); err != nil {
		e.log.Error("record delivery fan-out failed",
			zap.String("message_id", msg.ID.Hex()),
			zap.Error(err))
		return
	}
	e.rooms.Broadcast(ev.Branch, protocol.ServerEvent{
		Event: protocol.EventMessageDelivered,
		Data:  protocol.MessageDeliveredPayload{MessageID: msg.ID.Hex(), DeliveredTo: fanout},
	})
}

func (e *Engine) handleAckDelivered(ctx context.Context, ev AckDelivered) {
	if ev.MessageID == "" || ev.UserID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	if err := e.store.AppendDeliveredTo(ctx, ev.MessageID, []string{ev.UserID}); err != nil {
		e.log.Error("ack-delivered failed",
			zap.String("message_id", ev.MessageID),
			zap.String("user_id", ev.UserID),
			zap.Error(err))
		return
	}
	e.rooms.BroadcastAll(protocol.ServerEvent{
		Event: protocol.EventMessageDelivered,
		Data:  protocol.MessageDeliveredPayload{MessageID: ev.MessageID, DeliveredTo: []string{ev.UserID}},
	})
}

func (e *Engine) handleRead(ctx context.Context, ev Read) {
	if ev.MessageID == "" || ev.UserID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	if err := e.store.AppendReadBy(ctx, ev.MessageID, ev.UserID); err != nil {
		e.log.Error("read receipt failed",
			zap.String("message_id", ev.MessageID),
			zap.String("user_id", ev.UserID),
			zap.Error(err))
		return
	}
	e.rooms.BroadcastAll(protocol.ServerEvent{
		Event: protocol.EventMessageRead,
		Data:  protocol.MessageReadPayload{MessageID: ev.MessageID, UserID: ev.UserID},
	})
}

func (e *Engine) handleDisconnect(connID string) {
	dep, becameOffline := e.presence.RemoveConnection(connID)
	e.rooms.Unregister(connID)
	if !becameOffline {
		return
	}
	e.rooms.BroadcastAll(protocol.ServerEvent{
		Event: protocol.EventUserOffline,
		Data:  protocol.UserOfflinePayload{UserID: dep.UserID, LastSeen: dep.LastSeen},
	})
}
