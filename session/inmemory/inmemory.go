package inmemory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwa-dev/kaiwa/session"
)

// Store keeps sessions in process memory. History lives for the process
// lifetime; TTL only marks an expiry timestamp for parity with other stores.
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewInMemorySessionStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (store *Store) EnsureSession(id string, ttl time.Duration) (session.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if id != "" {
		if sess, ok := store.sessions[id]; ok {
			sess.expire(ttl)
			return sess, nil
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	sess := &Session{id: id, expiresAt: time.Now().Add(ttl)}
	store.sessions[id] = sess
	return sess, nil
}

// Session holds one conversation history. A per-session mutex serializes
// appends so concurrent requests for the same id cannot interleave pairs.
type Session struct {
	id        string
	expiresAt time.Time
	messages  []session.Message
	mu        sync.RWMutex
}

func (s *Session) ID() string { return s.id }

func (s *Session) expire(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = time.Now().Add(ttl)
}

func (s *Session) History() []session.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]session.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) AppendExchange(userMsg, assistantMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages,
		session.Message{Role: session.RoleUser, Content: userMsg},
		session.Message{Role: session.RoleAssistant, Content: assistantMsg},
	)
	return nil
}
