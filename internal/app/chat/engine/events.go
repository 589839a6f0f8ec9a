// internal/app/chat/engine/events.go
package engine

// Event is one client action dispatched through the engine. The
// concrete types below form the complete transition table; the
// transport decodes wire frames into these and calls Dispatch.
type Event interface {
	isEvent()
}

// Join establishes the connection's identity and registers it with
// the presence registry.
type Join struct {
	UserID string
	Name   string
}

// JoinBranch adds the connection to a branch room.
type JoinBranch struct {
	Branch string
}

// Typing signals the user started typing in a branch. Not persisted.
type Typing struct {
	Branch string
	UserID string
	Name   string
}

// StopTyping signals the user stopped typing in a branch.
type StopTyping struct {
	Branch string
	UserID string
}

// SendMessage persists a new message and fans it out to the branch.
type SendMessage struct {
	Branch      string
	Text        string
	UserID      string
	Name        string
	ClientMsgID string
}

// AckDelivered records a manual delivery acknowledgement. Idempotent.
type AckDelivered struct {
	MessageID string
	UserID    string
}

// Read records a read receipt. Idempotent.
type Read struct {
	MessageID string
	UserID    string
}

// Disconnect tears down the connection's presence and room state.
type Disconnect struct{}

func (Join) isEvent()         {}
func (JoinBranch) isEvent()   {}
func (Typing) isEvent()       {}
func (StopTyping) isEvent()   {}
func (SendMessage) isEvent()  {}
func (AckDelivered) isEvent() {}
func (Read) isEvent()         {}
func (Disconnect) isEvent()   {}
