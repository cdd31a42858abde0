package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stewardhq/steward/internal/agent"
	"github.com/stewardhq/steward/internal/provider"
	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
	"github.com/stewardhq/steward/internal/tools"
)

type stubProvider struct {
	response schema.LLMResponse
	err      error
	calls    int
}

func (p *stubProvider) Chat(context.Context, schema.Messages, []map[string]any, schema.ChatOptions) (schema.LLMResponse, error) {
	p.calls++
	if p.err != nil {
		return schema.LLMResponse{}, p.err
	}
	return p.response, nil
}

func (p *stubProvider) DefaultModel() string { return "test-model" }

func newTestServer(t *testing.T, p schema.LLMProvider, limiter *VisitorLimiter) *httptest.Server {
	t.Helper()
	st := store.NewMemoryStore()
	orch := agent.NewOrchestrator(p, tools.NewDefaultRegistry(st, nil), agent.NewPromptContext(), agent.Options{
		Model:     "test-model",
		MaxTokens: 1024,
		MaxRounds: 5,
	})
	srv := httptest.NewServer(New(orch, st, limiter).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postChat(t *testing.T, srv *httptest.Server, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, payload
}

func TestChat_Success(t *testing.T) {
	text := "Hello! How can I help?"
	p := &stubProvider{response: schema.LLMResponse{
		Content:    &text,
		StopReason: "end_turn",
		Usage:      schema.Usage{InputTokens: 12, OutputTokens: 7},
	}}
	srv := newTestServer(t, p, nil)

	resp, payload := postChat(t, srv, `{
		"messages": [{"role": "user", "content": "hi"}],
		"organizationId": "org-1",
		"userId": "user-1"
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if payload["message"] != text {
		t.Errorf("message = %v", payload["message"])
	}
	usage, _ := payload["usage"].(map[string]any)
	if usage["input_tokens"] != float64(12) || usage["output_tokens"] != float64(7) {
		t.Errorf("usage = %v", usage)
	}
}

func TestChat_MissingOrganizationID(t *testing.T) {
	p := &stubProvider{}
	srv := newTestServer(t, p, nil)

	resp, payload := postChat(t, srv, `{
		"messages": [{"role": "user", "content": "hi"}],
		"userId": "user-1"
	}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if !strings.Contains(payload["error"].(string), "organizationId") {
		t.Errorf("error = %v", payload["error"])
	}
	if p.calls != 0 {
		t.Errorf("provider was called %d times for an invalid request", p.calls)
	}
}

func TestChat_MissingUserID(t *testing.T) {
	p := &stubProvider{}
	srv := newTestServer(t, p, nil)

	resp, _ := postChat(t, srv, `{
		"messages": [{"role": "user", "content": "hi"}],
		"organizationId": "org-1"
	}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if p.calls != 0 {
		t.Errorf("provider was called %d times for an invalid request", p.calls)
	}
}

func TestChat_EmptyMessages(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil)
	resp, _ := postChat(t, srv, `{"messages": [], "organizationId": "org-1", "userId": "user-1"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestChat_MalformedBody(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil)
	resp, _ := postChat(t, srv, `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestChat_ProviderErrorMapping(t *testing.T) {
	tests := []struct {
		kind       provider.ErrorKind
		wantStatus int
	}{
		{provider.KindOverloaded, http.StatusServiceUnavailable},
		{provider.KindAuth, http.StatusUnauthorized},
		{provider.KindUnknownModel, http.StatusNotFound},
		{provider.KindRateLimited, http.StatusTooManyRequests},
		{provider.KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		p := &stubProvider{err: &provider.APIError{Kind: tt.kind, StatusCode: 500, Message: "upstream"}}
		srv := newTestServer(t, p, nil)

		resp, payload := postChat(t, srv, `{
			"messages": [{"role": "user", "content": "hi"}],
			"organizationId": "org-1",
			"userId": "user-1"
		}`)
		if resp.StatusCode != tt.wantStatus {
			t.Errorf("kind %s: status = %d, want %d", tt.kind, resp.StatusCode, tt.wantStatus)
		}
		if payload["error"] == "" {
			t.Errorf("kind %s: empty error message", tt.kind)
		}
	}
}

func TestChat_RateLimited(t *testing.T) {
	text := "ok"
	p := &stubProvider{response: schema.LLMResponse{Content: &text, StopReason: "end_turn"}}
	srv := newTestServer(t, p, NewVisitorLimiter(0.001, 1))

	body := `{"messages": [{"role": "user", "content": "hi"}], "organizationId": "org-1", "userId": "user-1"}`
	resp1, _ := postChat(t, srv, body)
	if resp1.StatusCode != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", resp1.StatusCode)
	}
	resp2, _ := postChat(t, srv, body)
	if resp2.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", resp2.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestReadyz(t *testing.T) {
	srv := newTestServer(t, &stubProvider{}, nil)
	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
