// Package api exposes the HTTP surface: the analyze endpoint the platform
// calls per incoming scammer message, plus health and metrics.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/glasswing-labs/decoy/internal/observability"
	"github.com/glasswing-labs/decoy/internal/processor"
	"github.com/glasswing-labs/decoy/internal/session"
)

type Server struct {
	router    *chi.Mux
	port      int
	processor *processor.Processor
	logger    *slog.Logger
}

type analyzeResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply"`
}

type errorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func NewServer(port int, apiToken string, proc *processor.Processor, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:    router,
		port:      port,
		processor: proc,
		logger:    logger,
	}

	router.Get("/health", s.health)
	router.Get("/metrics", observability.MetricsHandler().ServeHTTP)
	router.Route("/api/v1/honeypot", func(r chi.Router) {
		if apiToken != "" {
			r.Use(bearerAuth(apiToken))
		}
		r.Post("/analyze", s.analyze)
	})

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("api server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req session.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if err := validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	decision := s.processor.Process(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(analyzeResponse{Status: "success", Reply: decision.AgentReply})
}

func validate(req session.Request) error {
	if req.SessionID == "" {
		return fmt.Errorf("sessionId is required")
	}
	if req.Message.Text == "" {
		return fmt.Errorf("message.text is required")
	}
	if !session.ValidRole(req.Message.Sender) {
		return fmt.Errorf("message.sender %q is not a valid role", req.Message.Sender)
	}
	for i, turn := range req.History {
		if !session.ValidRole(turn.Sender) {
			return fmt.Errorf("conversationHistory[%d].sender %q is not a valid role", i, turn.Sender)
		}
	}
	return nil
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(errorResponse{Status: "error", Error: msg})
}

func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				writeError(w, http.StatusUnauthorized, "invalid or missing token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
