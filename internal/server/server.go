// Package server exposes the chat orchestrator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/stewardhq/steward/internal/agent"
	"github.com/stewardhq/steward/internal/provider"
	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
)

// Server hosts the chat endpoint plus liveness and readiness probes.
type Server struct {
	orch    *agent.Orchestrator
	store   store.Store
	limiter *VisitorLimiter
}

// New wires a Server over the orchestrator and backing store. limiter may be
// nil to disable rate limiting.
func New(orch *agent.Orchestrator, st store.Store, limiter *VisitorLimiter) *Server {
	return &Server{orch: orch, store: st, limiter: limiter}
}

// Handler returns the routed http.Handler for this server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	return mux
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages       []chatMessage `json:"messages"`
	OrganizationID string        `json:"organizationId"`
	UserID         string        `json:"userId"`
}

type usagePayload struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type chatResponse struct {
	Message string       `json:"message"`
	Usage   usagePayload `json:"usage"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && !s.limiter.Allow(clientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: "Too many requests. Please wait a moment and try again.",
		})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}
	if req.OrganizationID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "organizationId is required"})
		return
	}
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "userId is required"})
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "messages must not be empty"})
		return
	}

	transcript := schema.NewMessages()
	for _, m := range req.Messages {
		switch m.Role {
		case "user":
			transcript.AddUser(m.Content)
		case "assistant":
			content := m.Content
			transcript.AddAssistant(&content, nil)
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message roles must be user or assistant"})
			return
		}
	}

	reply, err := s.orch.Run(r.Context(), transcript, req.OrganizationID, req.UserID)
	if err != nil {
		status, msg := mapError(err)
		slog.Error("Chat request failed", "org", req.OrganizationID, "status", status, "err", err)
		writeJSON(w, status, errorResponse{Error: msg})
		return
	}

	slog.Info("Chat request served",
		"org", req.OrganizationID,
		"rounds", reply.Rounds,
		"tools", strings.Join(reply.ToolsUsed, ","),
	)
	writeJSON(w, http.StatusOK, chatResponse{
		Message: reply.Message,
		Usage: usagePayload{
			InputTokens:  reply.Usage.InputTokens,
			OutputTokens: reply.Usage.OutputTokens,
		},
	})
}

// mapError translates an orchestration failure into a client-facing status
// and message.
func mapError(err error) (int, string) {
	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatus(), apiErr.UserMessage()
	}
	return http.StatusInternalServerError, "Failed to process chat message"
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports ready only when the record store answers a ping.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "fail",
			"store":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "store": "ok"})
}

// clientIP extracts the caller address for rate limiting, honoring proxies.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip, _, ok := strings.Cut(fwd, ","); ok || ip != "" {
			return strings.TrimSpace(ip)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "err", err)
	}
}
