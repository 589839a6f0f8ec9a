// internal/app/chat/ws/client.go
package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campuschat/campuschat/internal/app/chat/engine"
	"github.com/campuschat/campuschat/internal/app/chat/protocol"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// writeWait is the allowance for one outbound frame.
	writeWait = 10 * time.Second

	// pongWait is how long we tolerate silence from the peer.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds one inbound frame.
	maxMessageSize = 8 * 1024

	// sendBuffer is the outbound queue per connection. A client that
	// cannot drain this is disconnected rather than allowed to stall
	// broadcasts.
	sendBuffer = 64
)

// client is one live WebSocket session. It implements rooms.Sender by
// enqueueing into a bounded channel drained by writePump.
type client struct {
	connID string
	conn   *websocket.Conn
	engine *engine.Engine
	log    *zap.Logger

	send chan protocol.ServerEvent
	done chan struct{}
}

func newClient(connID string, conn *websocket.Conn, eng *engine.Engine, log *zap.Logger) *client {
	return &client{
		connID: connID,
		conn:   conn,
		engine: eng,
		log:    log,
		send:   make(chan protocol.ServerEvent, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Send enqueues one outbound event. If the client's queue is full the
// event is dropped and the connection closed; a reader this far behind
// will re-hydrate from the history endpoint on reconnect.
func (c *client) Send(ev protocol.ServerEvent) {
	select {
	case c.send <- ev:
	case <-c.done:
	default:
		c.log.Warn("send queue full, dropping connection",
			zap.String("conn_id", c.connID))
		c.close()
	}
}

func (c *client) close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

// readPump decodes inbound frames into engine events and dispatches
// them. It owns the connection's read side and runs until the socket
// closes, then emits the Disconnect event.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.engine.Dispatch(ctx, c.connID, engine.Disconnect{})
		c.close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("websocket read error",
					zap.String("conn_id", c.connID), zap.Error(err))
			}
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Debug("malformed frame dropped",
				zap.String("conn_id", c.connID), zap.Error(err))
			continue
		}

		ev, ok := decodeEvent(env)
		if !ok {
			continue
		}
		c.engine.Dispatch(ctx, c.connID, ev)
	}
}

// writePump drains the send queue onto the socket and keeps the
// connection alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		}
	}
}

// decodeEvent maps a wire envelope onto the engine's event union.
// Unknown event names are dropped.
func decodeEvent(env protocol.Envelope) (engine.Event, bool) {
	switch env.Event {
	case protocol.EventJoin:
		var p protocol.JoinPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, false
		}
		return engine.Join{UserID: p.UserID, Name: p.Name}, true
	case protocol.EventJoinBranch:
		var p protocol.JoinBranchPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, false
		}
		return engine.JoinBranch{Branch: p.Branch}, true
	case protocol.EventTyping:
		var p protocol.TypingPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, false
		}
		return engine.Typing{Branch: p.Branch, UserID: p.UserID, Name: p.Name}, true
	case protocol.EventStopTyping:
		var p protocol.TypingPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, false
		}
		return engine.StopTyping{Branch: p.Branch, UserID: p.UserID}, true
	case protocol.EventSendMessage:
		var p protocol.SendMessagePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, false
		}
		return engine.SendMessage{
			Branch:      p.Branch,
			Text:        p.Text,
			UserID:      p.UserID,
			Name:        p.Name,
			ClientMsgID: p.ClientMsgID,
		}, true
	case protocol.EventAckDelivered:
		var p protocol.AckDeliveredPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, false
		}
		return engine.AckDelivered{MessageID: p.MessageID, UserID: p.UserID}, true
	case protocol.EventRead:
		var p protocol.ReadPayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return nil, false
		}
		return engine.Read{MessageID: p.MessageID, UserID: p.UserID}, true
	}
	return nil, false
}
