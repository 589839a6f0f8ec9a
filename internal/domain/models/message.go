// internal/domain/models/message.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message delivery states. Status only moves forward:
// sent -> delivered -> read.
const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
)

// Sender identifies the user who wrote a message.
type Sender struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Message is a persisted chat entry in a branch room.
//
// DeliveredTo and ReadBy have set semantics (userIDs, deduplicated,
// never containing the sender). Status is the monotonically-advancing
// aggregate of the two sets.
type Message struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Branch string             `bson:"branch" json:"branch"`
	Sender Sender             `bson:"sender" json:"sender"`
	Text   string             `bson:"text" json:"text"`

	Status      string   `bson:"status" json:"status"`
	DeliveredTo []string `bson:"delivered_to,omitempty" json:"deliveredTo,omitempty"`
	ReadBy      []string `bson:"read_by,omitempty" json:"readBy,omitempty"`

	// ClientMsgID is an optional client-assigned correlation id echoed
	// back in the message-new broadcast so clients can reconcile their
	// optimistic placeholder without content matching.
	ClientMsgID string `bson:"client_msg_id,omitempty" json:"clientMsgId,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// DeliveredToContains reports whether userID is recorded as delivered.
func (m *Message) DeliveredToContains(userID string) bool {
	for _, id := range m.DeliveredTo {
		if id == userID {
			return true
		}
	}
	return false
}

// ReadByContains reports whether userID is recorded as having read.
func (m *Message) ReadByContains(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
