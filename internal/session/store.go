package session

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the sliding expiry window applied when none is
// configured.
const DefaultTTL = 7 * 24 * time.Hour

// ErrStore is the root of session backend failures.
var ErrStore = errors.New("session store failed")

// Message is one entry of a session's conversation history, immutable
// once appended. Timestamp is epoch milliseconds captured at append
// time.
type Message struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"ts"`
}

// Store owns sessions and their message history. Every mutating call
// refreshes the session's expiry to the full TTL measured from the
// call time. History of a missing or expired session is empty, never
// an error; Clear is idempotent.
type Store interface {
	Create(ctx context.Context) (string, error)
	// AppendTurn appends exactly two messages, user then assistant,
	// as a single atomic backend operation.
	AppendTurn(ctx context.Context, sessionID, userText, assistantText string) error
	History(ctx context.Context, sessionID string) ([]Message, error)
	Clear(ctx context.Context, sessionID string) error
}
