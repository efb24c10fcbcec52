package session

import "time"

// Roles used in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in a session's conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store interface for session management
type Store interface {
	// EnsureSession returns the session with the given id, creating it if it
	// does not exist yet. An empty id yields a freshly generated one.
	EnsureSession(id string, ttl time.Duration) (Session, error)
}

// Session interface for conversation history operations
type Session interface {
	ID() string
	// History returns the full conversation in chronological order.
	History() []Message
	// AppendExchange records one completed user/assistant exchange. Appends
	// for the same session are serialized, so two messages land adjacently.
	AppendExchange(userMsg, assistantMsg string) error
}
