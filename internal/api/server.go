package api

import (
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"newschat/internal/chat"
	"newschat/internal/common"
	"newschat/internal/session"
)

// Server exposes the chat service over HTTP.
type Server struct {
	router      chi.Router
	coordinator *chat.Coordinator
	sessions    session.Store
}

// NewServer wires the router around the coordinator and session store.
func NewServer(coordinator *chat.Coordinator, sessions session.Store) *Server {
	srv := &Server{
		router:      chi.NewRouter(),
		coordinator: coordinator,
		sessions:    sessions,
	}
	srv.routes()
	common.Logger().Info("api: server ready")
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()

	// Permissive CORS: the chat widget is embedded on arbitrary pages.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization", "Cache-Control", "Pragma"},
		MaxAge:         86400,
	}))
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	s.router.Route("/api/chat", func(r chi.Router) {
		r.Post("/session", s.handleCreateSession)
		r.Get("/session/{id}/history", s.handleHistory)
		r.Post("/session/{id}/clear", s.handleClear)
		r.Post("/message", s.handleMessage)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
