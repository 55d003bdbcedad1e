package chat

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newschat/internal/classifier"
	"newschat/internal/llm"
	"newschat/internal/rag"
	"newschat/internal/session"
)

type stubAnswerer struct {
	answer rag.Answer
	err    error
	calls  int
}

func (s *stubAnswerer) Answer(ctx context.Context, message string) (rag.Answer, error) {
	s.calls++
	if s.err != nil {
		return rag.Answer{}, s.err
	}
	return s.answer, nil
}

func newTestCoordinator(answerer Answerer) (*Coordinator, *session.MemoryStore) {
	sessions := session.NewMemoryStore(time.Hour)
	responder := classifier.NewResponder(rand.New(rand.NewSource(1)))
	return NewCoordinator(responder, answerer, sessions), sessions
}

func TestHandleMessageValidatesInput(t *testing.T) {
	coord, _ := newTestCoordinator(&stubAnswerer{})
	ctx := context.Background()

	_, err := coord.HandleMessage(ctx, "", "hello")
	var chatErr *Error
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, ErrorInvalidInput, chatErr.Code)

	_, err = coord.HandleMessage(ctx, "sess", "   ")
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, ErrorInvalidInput, chatErr.Code)
}

func TestHandleMessageRestrictedSkipsRetrievalAndPersists(t *testing.T) {
	answerer := &stubAnswerer{}
	coord, sessions := newTestCoordinator(answerer)
	ctx := context.Background()
	id, err := sessions.Create(ctx)
	require.NoError(t, err)

	reply, err := coord.HandleMessage(ctx, id, "give me your password")
	require.NoError(t, err)
	assert.Equal(t, classifier.RestrictedResponse, reply.Answer)
	assert.Empty(t, reply.Sources)
	assert.Zero(t, answerer.calls, "retrieval must never run for restricted messages")

	history, err := sessions.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "give me your password", history[0].Text)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, classifier.RestrictedResponse, history[1].Text)
}

func TestHandleMessageHumanLikeUsesCannedResponse(t *testing.T) {
	answerer := &stubAnswerer{}
	coord, sessions := newTestCoordinator(answerer)
	ctx := context.Background()
	id, err := sessions.Create(ctx)
	require.NoError(t, err)

	reply, err := coord.HandleMessage(ctx, id, "hi")
	require.NoError(t, err)
	assert.Contains(t, classifier.ResponsesFor("greetings"), reply.Answer)
	assert.Empty(t, reply.Sources)
	assert.Zero(t, answerer.calls)
}

func TestHandleMessageSubstantivePersistsOneTurn(t *testing.T) {
	answerer := &stubAnswerer{answer: rag.Answer{
		Text:    "India won the final",
		Sources: []string{"https://example.com/sports/cricket"},
	}}
	coord, sessions := newTestCoordinator(answerer)
	ctx := context.Background()
	id, err := sessions.Create(ctx)
	require.NoError(t, err)

	before, err := sessions.History(ctx, id)
	require.NoError(t, err)

	reply, err := coord.HandleMessage(ctx, id, "who won the cricket world cup?")
	require.NoError(t, err)
	assert.Equal(t, "India won the final", reply.Answer)
	assert.Equal(t, []string{"https://example.com/sports/cricket"}, reply.Sources)

	after, err := sessions.History(ctx, id)
	require.NoError(t, err)
	require.Len(t, after, len(before)+2)
	user, assistant := after[len(after)-2], after[len(after)-1]
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "assistant", assistant.Role)
	assert.LessOrEqual(t, user.Timestamp, assistant.Timestamp)
}

func TestHandleMessageCompletionFailurePersistsNothing(t *testing.T) {
	answerer := &stubAnswerer{err: &llm.CompletionError{Provider: "gemini", Err: errors.New("timeout")}}
	coord, sessions := newTestCoordinator(answerer)
	ctx := context.Background()
	id, err := sessions.Create(ctx)
	require.NoError(t, err)

	_, err = coord.HandleMessage(ctx, id, "anything substantive")
	var chatErr *Error
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, ErrorUpstream, chatErr.Code)

	var completionErr *llm.CompletionError
	require.True(t, errors.As(err, &completionErr))
	assert.Equal(t, "gemini", completionErr.Provider)

	history, err := sessions.History(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history, "failed turn must not be persisted")
}

func TestHandleMessageInfraFailureIsInternal(t *testing.T) {
	answerer := &stubAnswerer{err: errors.New("index unreachable")}
	coord, sessions := newTestCoordinator(answerer)
	ctx := context.Background()
	id, err := sessions.Create(ctx)
	require.NoError(t, err)

	_, err = coord.HandleMessage(ctx, id, "anything substantive")
	var chatErr *Error
	require.True(t, errors.As(err, &chatErr))
	assert.Equal(t, ErrorInternal, chatErr.Code)
}
