package chat

import (
	"context"
	"errors"
	"strings"

	"newschat/internal/classifier"
	"newschat/internal/common"
	"newschat/internal/llm"
	"newschat/internal/rag"
	"newschat/internal/session"
)

// Reply is the outcome of one successful chat turn. Sources is empty
// for canned responses.
type Reply struct {
	Answer  string
	Sources []string
}

// Answerer is the retrieval-and-generation path for substantive
// messages, satisfied by rag.Service.
type Answerer interface {
	Answer(ctx context.Context, message string) (rag.Answer, error)
}

// Coordinator drives one message through classification, optional
// retrieval, and persistence. Per message it produces exactly one
// assistant reply, and a turn is persisted exactly when the reply is
// returned successfully.
type Coordinator struct {
	responder *classifier.Responder
	answerer  Answerer
	sessions  session.Store
}

// NewCoordinator wires the per-turn pipeline.
func NewCoordinator(responder *classifier.Responder, answerer Answerer, sessions session.Store) *Coordinator {
	return &Coordinator{responder: responder, answerer: answerer, sessions: sessions}
}

// HandleMessage runs one chat turn for (sessionID, message).
func (c *Coordinator) HandleMessage(ctx context.Context, sessionID, message string) (Reply, error) {
	logger := common.Logger()
	if strings.TrimSpace(sessionID) == "" {
		return Reply{}, newError(ErrorInvalidInput, "session_id_required", nil)
	}
	if strings.TrimSpace(message) == "" {
		return Reply{}, newError(ErrorInvalidInput, "message_required", nil)
	}

	var reply Reply
	result := classifier.Classify(message)
	switch result.Kind {
	case classifier.KindRestricted:
		logger.Info("chat: restricted message refused", "group", result.Category)
		reply = Reply{Answer: classifier.RestrictedResponse, Sources: []string{}}
	case classifier.KindHumanLike:
		logger.Debug("chat: human-like message", "category", result.Category)
		reply = Reply{Answer: c.responder.Friendly(result.Category), Sources: []string{}}
	default:
		answer, err := c.answerer.Answer(ctx, message)
		if err != nil {
			// Nothing persisted: a failed turn leaves the session
			// history untouched.
			var completionErr *llm.CompletionError
			if errors.As(err, &completionErr) {
				logger.Error("chat: completion failed", "provider", completionErr.Provider, "error", err)
				return Reply{}, newError(ErrorUpstream, "completion_failed", err)
			}
			logger.Error("chat: retrieval failed", "error", err)
			return Reply{}, newError(ErrorInternal, "retrieval_failed", err)
		}
		reply = Reply{Answer: answer.Text, Sources: answer.Sources}
	}

	if err := c.sessions.AppendTurn(ctx, sessionID, message, reply.Answer); err != nil {
		logger.Error("chat: persisting turn failed", "error", err)
		return Reply{}, newError(ErrorInternal, "session_append_failed", err)
	}
	return reply, nil
}
