package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreTTLSlidesForward(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	ctx := context.Background()

	id, err := store.Create(ctx)
	require.NoError(t, err)
	createdExpiry, ok := store.ExpiresAt(id)
	require.True(t, ok)

	now = now.Add(10 * time.Minute)
	require.NoError(t, store.AppendTurn(ctx, id, "question", "answer"))
	refreshedExpiry, ok := store.ExpiresAt(id)
	require.True(t, ok)
	assert.True(t, refreshedExpiry.After(createdExpiry), "append must push expiry forward")
}

func TestMemoryStoreAppendTurnOrderAndTimestamps(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()
	id, err := store.Create(ctx)
	require.NoError(t, err)

	before, err := store.History(ctx, id)
	require.NoError(t, err)
	require.NoError(t, store.AppendTurn(ctx, id, "what happened today?", "plenty"))
	after, err := store.History(ctx, id)
	require.NoError(t, err)

	require.Len(t, after, len(before)+2)
	user, assistant := after[len(after)-2], after[len(after)-1]
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "what happened today?", user.Text)
	assert.Equal(t, "assistant", assistant.Role)
	assert.Equal(t, "plenty", assistant.Text)
	assert.LessOrEqual(t, user.Timestamp, assistant.Timestamp)
}

func TestMemoryStoreHistoryOfMissingSessionIsEmpty(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	history, err := store.History(context.Background(), "never-created")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryStoreExpiredSessionIsGone(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	ctx := context.Background()

	id, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.AppendTurn(ctx, id, "u", "a"))

	now = now.Add(2 * time.Minute)
	history, err := store.History(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryStoreClearIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()
	id, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, id))
	require.NoError(t, store.Clear(ctx, id))
	history, err := store.History(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)
}
