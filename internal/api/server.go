// Package api exposes the tutor service over HTTP: the agent, RAG and chat
// routes, health and readiness checks, and the Prometheus scrape endpoint.
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gyaansetu-gateway/internal/common/errors"
	"gyaansetu-gateway/internal/gateway"
	"gyaansetu-gateway/internal/tutor"
)

const (
	RequestIDHeader = "X-Request-ID"

	agentFailedMessage = "Agent task failed"
	ragFailedMessage   = "Failed to process RAG query"
	chatFailedMessage  = "Failed to process request"

	maxBodyBytes = 1 << 20
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

type Service interface {
	Agent(ctx context.Context, req tutor.AgentRequest, creds gateway.BackendCredentials) (*tutor.AgentResponse, error)
	Knowledge(ctx context.Context, req tutor.KnowledgeRequest, creds gateway.BackendCredentials) (*tutor.KnowledgeResponse, error)
	Chat(ctx context.Context, req tutor.ChatRequest, creds gateway.BackendCredentials) (*tutor.ChatReply, error)
}

// Recorder is satisfied by *observability.Observability.
type Recorder interface {
	RecordRequest(ctx context.Context, route string, status string, duration time.Duration)
}

type Options struct {
	Service Service
	Logger  Logger
	// Recorder is optional.
	Recorder Recorder
	// Getenv is consulted on every request; defaults to a no-key environment.
	Getenv func(string) string
	// Documents reports the knowledge base size for /ready.
	Documents func() int
}

type Server struct {
	service   Service
	logger    Logger
	recorder  Recorder
	getenv    func(string) string
	documents func() int
	mux       *http.ServeMux
}

func NewServer(opts Options) *Server {
	s := &Server{
		service:   opts.Service,
		logger:    opts.Logger,
		recorder:  opts.Recorder,
		getenv:    opts.Getenv,
		documents: opts.Documents,
		mux:       http.NewServeMux(),
	}
	if s.getenv == nil {
		s.getenv = func(string) string { return "" }
	}

	s.mux.HandleFunc("POST /api/agent", s.instrument("/api/agent", s.handleAgent))
	s.mux.HandleFunc("POST /api/rag", s.instrument("/api/rag", s.handleRAG))
	s.mux.HandleFunc("POST /api/chat", s.instrument("/api/chat", s.handleChat))
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /ready", s.handleReady)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)

		duration := time.Since(start)
		if s.recorder != nil {
			s.recorder.RecordRequest(r.Context(), route, strconv.Itoa(sw.status), duration)
		}
		s.logger.Info("request handled", map[string]interface{}{
			"route":      route,
			"status":     sw.status,
			"requestId":  requestID,
			"durationMs": duration.Milliseconds(),
		})
	}
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	var req tutor.AgentRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, agentFailedMessage, errors.NewInvalidRequestError(err.Error()))
		return
	}

	resp, err := s.service.Agent(r.Context(), req, gateway.CredentialsFromEnv(s.getenv))
	if err != nil {
		s.fail(w, r, agentFailedMessage, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRAG(w http.ResponseWriter, r *http.Request) {
	var req tutor.KnowledgeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, ragFailedMessage, errors.NewInvalidRequestError(err.Error()))
		return
	}

	resp, err := s.service.Knowledge(r.Context(), req, gateway.CredentialsFromEnv(s.getenv))
	if err != nil {
		s.fail(w, r, ragFailedMessage, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Body())
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req tutor.ChatRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, chatFailedMessage, errors.NewInvalidRequestError(err.Error()))
		return
	}

	resp, err := s.service.Chat(r.Context(), req, gateway.CredentialsFromEnv(s.getenv))
	if err != nil {
		s.fail(w, r, chatFailedMessage, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// fail maps a service error onto the route's response. Validation and
// configuration errors carry their own message; every dispatch failure
// collapses to the route's generic message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, generic string, err error) {
	stdErr := errors.Normalize(err)

	s.logger.Error("request failed", map[string]interface{}{
		"path":    r.URL.Path,
		"code":    stdErr.Code,
		"details": stdErr.Details,
	})

	status, message := http.StatusInternalServerError, generic
	switch {
	case stdErr.IsValidation():
		status, message = http.StatusBadRequest, stdErr.Message
	case stdErr.Code == errors.ErrCodeConfiguration:
		message = stdErr.Message
	}

	body := map[string]interface{}{"error": message, "code": stdErr.Code}
	writeJSON(w, status, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	creds := gateway.CredentialsFromEnv(s.getenv)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
		"backends": map[string]bool{
			"local":  creds.HasLocal(),
			"hosted": creds.HasHosted(),
		},
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	docs := 0
	if s.documents != nil {
		docs = s.documents()
	}
	status, state := http.StatusOK, "ready"
	if docs == 0 {
		status, state = http.StatusServiceUnavailable, "not ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status":    state,
		"documents": docs,
		"time":      time.Now().Format(time.RFC3339),
	})
}

// decodeBody treats an empty body as an empty request so that the service
// reports the missing field.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
