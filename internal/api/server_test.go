package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glasswing-labs/decoy/internal/analyst"
	"github.com/glasswing-labs/decoy/internal/processor"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticProvider struct {
	output string
}

func (s *staticProvider) Complete(context.Context, string, string) (string, error) {
	return s.output, nil
}

func testServer(t *testing.T, providerOutput, apiToken string) *Server {
	t.Helper()
	a := analyst.New(&staticProvider{output: providerOutput}, discardLogger())
	p := processor.New(a, discardLogger())
	return NewServer(8780, apiToken, p, discardLogger())
}

const verdictJSON = `{"scamDetected": true, "agentReply": "which account is blocked?", "shouldTriggerCallback": false}`

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t, verdictJSON, "")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := testServer(t, verdictJSON, "")

	payload := `{
		"sessionId": "sess-api-1",
		"message": {"sender": "scammer", "text": "your account is blocked", "timestamp": "2026-03-14T09:30:00Z"},
		"conversationHistory": []
	}`
	req := httptest.NewRequest("POST", "/api/v1/honeypot/analyze", strings.NewReader(payload))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body analyzeResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Status != "success" {
		t.Errorf("status = %q, want success", body.Status)
	}
	if body.Reply != "which account is blocked?" {
		t.Errorf("reply = %q", body.Reply)
	}
}

func TestAnalyzeEndpoint_Validation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `hello`},
		{"missing session id", `{"message": {"sender": "scammer", "text": "hi", "timestamp": "2026-03-14T09:30:00Z"}}`},
		{"empty message text", `{"sessionId": "s", "message": {"sender": "scammer", "text": "", "timestamp": "2026-03-14T09:30:00Z"}}`},
		{"unknown sender", `{"sessionId": "s", "message": {"sender": "admin", "text": "hi", "timestamp": "2026-03-14T09:30:00Z"}}`},
		{"unknown history sender", `{
			"sessionId": "s",
			"message": {"sender": "scammer", "text": "hi", "timestamp": "2026-03-14T09:30:00Z"},
			"conversationHistory": [{"sender": "bot", "text": "x", "timestamp": "2026-03-14T09:29:00Z"}]
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer(t, verdictJSON, "")
			req := httptest.NewRequest("POST", "/api/v1/honeypot/analyze", strings.NewReader(tt.payload))
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}

			var body errorResponse
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Status != "error" {
				t.Errorf("status = %q, want error", body.Status)
			}
		})
	}
}

func TestAnalyzeEndpoint_BearerAuth(t *testing.T) {
	srv := testServer(t, verdictJSON, "secret-token")

	payload := `{
		"sessionId": "sess-auth",
		"message": {"sender": "scammer", "text": "hello", "timestamp": "2026-03-14T09:30:00Z"}
	}`

	req := httptest.NewRequest("POST", "/api/v1/honeypot/analyze", strings.NewReader(payload))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("without token: expected 401, got %d", w.Code)
	}

	req = httptest.NewRequest("POST", "/api/v1/honeypot/analyze", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("with token: expected 200, got %d", w.Code)
	}

	// Health stays open.
	req = httptest.NewRequest("GET", "/health", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("health with auth enabled: expected 200, got %d", w.Code)
	}
}
