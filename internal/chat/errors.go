package chat

import "fmt"

// ErrorCode classifies a failed chat turn for the transport layer.
type ErrorCode string

const (
	// ErrorInvalidInput marks a client mistake: missing session id or
	// message text. Never retried.
	ErrorInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrorUpstream marks a completion backend failure, surfaced with
	// its provider identity and never masked by the other provider.
	ErrorUpstream ErrorCode = "UPSTREAM_ERROR"
	// ErrorInternal marks an infrastructure failure: embedding, index,
	// or session store.
	ErrorInternal ErrorCode = "INTERNAL_ERROR"
)

// Error is the failure type returned by the coordinator.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("chat: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("chat: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}
