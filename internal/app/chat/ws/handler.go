// internal/app/chat/ws/handler.go

// Package ws is the WebSocket transport for the chat protocol: it
// authenticates the upgrade request, decodes wire frames into engine
// events, and writes broadcast events back to the socket.
package ws

import (
	"context"
	"net/http"
	"strings"

	"github.com/campuschat/campuschat/internal/app/chat/engine"
	"github.com/campuschat/campuschat/internal/app/system/token"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Identity comes from the verified token, not the origin.
		return true
	},
}

// Handler upgrades authenticated requests to chat connections.
type Handler struct {
	Engine *engine.Engine
	Tokens *token.Manager
	Log    *zap.Logger
}

// NewHandler constructs the WebSocket handler.
func NewHandler(eng *engine.Engine, tokens *token.Manager, logger *zap.Logger) *Handler {
	return &Handler{Engine: eng, Tokens: tokens, Log: logger}
}

// Serve handles GET /ws. The session token is taken from the `token`
// query parameter or the Authorization header; without a valid token
// the upgrade is refused and no protocol event is processed.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	claims, err := h.verify(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	connID := uuid.NewString()
	c := newClient(connID, conn, h.Engine, h.Log)
	h.Engine.Connect(connID, c)

	h.Log.Info("chat connection opened",
		zap.String("conn_id", connID),
		zap.String("user_id", claims.UserID()))

	go c.writePump()
	c.readPump(context.Background())

	h.Log.Info("chat connection closed", zap.String("conn_id", connID))
}

func (h *Handler) verify(r *http.Request) (*token.Claims, error) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		raw = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if raw == "" {
		return nil, token.ErrInvalidToken
	}
	return h.Tokens.Verify(raw)
}
