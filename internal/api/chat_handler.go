package api

import (
	"encoding/json"
	"errors"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"newschat/internal/chat"
	"newschat/internal/common"
	"newschat/internal/session"
)

type messageRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type messageResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type historyResponse struct {
	Messages []session.Message `json:"messages"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	id, err := s.sessions.Create(r.Context())
	if err != nil {
		logger.Error("api: session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	logger.Info("api: session created", "session", id)
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": id})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	messages, err := s.sessions.History(r.Context(), id)
	if err != nil {
		common.Logger().Error("api: history read failed", "session", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load history")
		return
	}
	if messages == nil {
		messages = []session.Message{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Messages: messages})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Clear(r.Context(), id); err != nil {
		common.Logger().Error("api: session clear failed", "session", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not clear session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: message decode failed", "error", err)
		writeError(w, http.StatusBadRequest, "sessionId & message required")
		return
	}
	reply, err := s.coordinator.HandleMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		var chatErr *chat.Error
		if errors.As(err, &chatErr) && chatErr.Code == chat.ErrorInvalidInput {
			writeError(w, http.StatusBadRequest, "sessionId & message required")
			return
		}
		// Infrastructure details stay in the logs; the caller gets a
		// generic failure distinct from any canned response.
		writeError(w, http.StatusInternalServerError, "could not process your message")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Answer: reply.Answer, Sources: reply.Sources})
}
