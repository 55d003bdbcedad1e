package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memorySession struct {
	messages  []Message
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. It mirrors the Redis
// store's semantics, including sliding TTL expiry, and serializes
// appends under a mutex.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*memorySession
}

// NewMemoryStore returns an empty store with the given sliding TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*memorySession),
	}
}

// SetClock replaces the time source, for tests.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &memorySession{expiresAt: s.now().Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) AppendTurn(ctx context.Context, sessionID, userText, assistantText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess := s.live(sessionID, now)
	if sess == nil {
		sess = &memorySession{}
		s.sessions[sessionID] = sess
	}
	ts := now.UnixMilli()
	sess.messages = append(sess.messages,
		Message{Role: "user", Text: userText, Timestamp: ts},
		Message{Role: "assistant", Text: assistantText, Timestamp: ts},
	)
	sess.expiresAt = now.Add(s.ttl)
	return nil
}

func (s *MemoryStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.live(sessionID, s.now())
	if sess == nil {
		return nil, nil
	}
	out := make([]Message, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// ExpiresAt reports the current expiry of a session, for tests.
func (s *MemoryStore) ExpiresAt(sessionID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return time.Time{}, false
	}
	return sess.expiresAt, true
}

// live returns the session if it exists and has not expired, dropping
// it otherwise.
func (s *MemoryStore) live(sessionID string, now time.Time) *memorySession {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	if now.After(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return nil
	}
	return sess
}
