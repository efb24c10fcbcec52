package redis_session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwa-dev/kaiwa/session"
	"github.com/redis/go-redis/v9"
)

// Store keeps conversation history in redis, one list of JSON messages per
// session. Suitable for multi-instance deployments where the in-memory store
// cannot be shared.
type Store struct {
	client *redis.Client
}

func NewRedisSessionStore(addr, password string, db int) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{client: rdb}
}

func historyKey(id string) string { return fmt.Sprintf("session:%s:history", id) }

func (store *Store) EnsureSession(id string, ttl time.Duration) (session.Session, error) {
	ctx := context.Background()
	if id == "" {
		id = uuid.NewString()
	}
	key := historyKey(id)
	exists, err := store.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis exists: %w", err)
	}
	if exists == 1 {
		_ = store.client.Expire(ctx, key, ttl).Err()
	}
	return &Session{client: store.client, id: id, ttl: ttl}, nil
}

type Session struct {
	client *redis.Client
	id     string
	ttl    time.Duration
}

func (s *Session) ID() string { return s.id }

func (s *Session) History() []session.Message {
	ctx := context.Background()
	vals, err := s.client.LRange(ctx, historyKey(s.id), 0, -1).Result()
	if err != nil {
		return nil
	}
	out := make([]session.Message, 0, len(vals))
	for _, v := range vals {
		var msg session.Message
		if err := json.Unmarshal([]byte(v), &msg); err != nil {
			continue
		}
		out = append(out, msg)
	}
	return out
}

func (s *Session) AppendExchange(userMsg, assistantMsg string) error {
	ctx := context.Background()
	user, err := json.Marshal(session.Message{Role: session.RoleUser, Content: userMsg})
	if err != nil {
		return err
	}
	assistant, err := json.Marshal(session.Message{Role: session.RoleAssistant, Content: assistantMsg})
	if err != nil {
		return err
	}
	key := historyKey(s.id)
	// Single RPUSH keeps the pair adjacent even with concurrent writers.
	if err := s.client.RPush(ctx, key, user, assistant).Err(); err != nil {
		return fmt.Errorf("redis rpush: %w", err)
	}
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, key, s.ttl).Err()
	}
	return nil
}
