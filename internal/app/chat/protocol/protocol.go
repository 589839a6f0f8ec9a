// internal/app/chat/protocol/protocol.go

// Package protocol defines the JSON wire format exchanged with chat
// clients. Every frame is an Envelope carrying an event name and an
// event-specific payload.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/campuschat/campuschat/internal/domain/models"
)

// Client -> server event names.
const (
	EventJoin         = "join"
	EventJoinBranch   = "join-branch"
	EventTyping       = "typing"
	EventStopTyping   = "stop-typing"
	EventSendMessage  = "send-message"
	EventAckDelivered = "ack-delivered"
	EventRead         = "read"
)

// Server -> client event names.
const (
	EventUserOnline       = "user-online"
	EventUserOffline      = "user-offline"
	EventMessageNew       = "message-new"
	EventMessageDelivered = "message-delivered"
	EventMessageRead      = "message-read"
)

// Envelope is one wire frame: {"event": "...", "data": {...}}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// ServerEvent is an outbound frame before marshaling. Data must be
// JSON-marshalable.
type ServerEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Inbound payloads.

type JoinPayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type JoinBranchPayload struct {
	Branch string `json:"branch"`
}

type TypingPayload struct {
	Branch string `json:"branch"`
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
}

type SendMessagePayload struct {
	Branch      string `json:"branch"`
	Text        string `json:"text"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	ClientMsgID string `json:"clientMsgId,omitempty"`
}

type AckDeliveredPayload struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
}

type ReadPayload struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
}

// Outbound payloads.

type UserOnlinePayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type UserOfflinePayload struct {
	UserID   string    `json:"userId"`
	LastSeen time.Time `json:"lastSeen"`
}

type MessageDeliveredPayload struct {
	MessageID   string   `json:"messageId"`
	DeliveredTo []string `json:"deliveredTo"`
}

type MessageReadPayload struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
}

// NewMessageEvent builds the message-new broadcast for a freshly
// persisted message.
func NewMessageEvent(m models.Message) ServerEvent {
	return ServerEvent{Event: EventMessageNew, Data: m}
}
