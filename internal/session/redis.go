package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"newschat/internal/common"
)

// RedisStore persists sessions in Redis. Each session uses two keys: a
// marker string and a list of JSON-encoded messages, both carrying the
// same sliding TTL. AppendTurn pushes user and assistant messages with
// a single RPUSH, so concurrent turns on one session interleave but
// never lose messages.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore connects to the Redis instance described by url
// (redis:// or rediss:// form) and verifies the connection.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: parse redis url: %v", ErrStore, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: ping: %v", ErrStore, err)
	}
	common.Logger().Info("session: redis connected", "addr", opts.Addr)
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, now: time.Now}, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func messagesKey(id string) string {
	return "session:" + id + ":messages"
}

func (s *RedisStore) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	created := s.now().UnixMilli()
	if err := s.client.Set(ctx, sessionKey(id), created, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%w: create: %v", ErrStore, err)
	}
	return id, nil
}

func (s *RedisStore) AppendTurn(ctx context.Context, sessionID, userText, assistantText string) error {
	ts := s.now().UnixMilli()
	user, err := json.Marshal(Message{Role: "user", Text: userText, Timestamp: ts})
	if err != nil {
		return fmt.Errorf("%w: encode user message: %v", ErrStore, err)
	}
	assistant, err := json.Marshal(Message{Role: "assistant", Text: assistantText, Timestamp: ts})
	if err != nil {
		return fmt.Errorf("%w: encode assistant message: %v", ErrStore, err)
	}
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, messagesKey(sessionID), user, assistant)
	pipe.Expire(ctx, messagesKey(sessionID), s.ttl)
	pipe.Expire(ctx, sessionKey(sessionID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: append turn: %v", ErrStore, err)
	}
	return nil
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	raw, err := s.client.LRange(ctx, messagesKey(sessionID), 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: history: %v", ErrStore, err)
	}
	messages := make([]Message, 0, len(raw))
	for _, entry := range raw {
		var msg Message
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			return nil, fmt.Errorf("%w: decode message: %v", ErrStore, err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID), messagesKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: clear: %v", ErrStore, err)
	}
	return nil
}
