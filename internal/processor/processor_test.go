package processor

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glasswing-labs/decoy/internal/analyst"
	"github.com/glasswing-labs/decoy/internal/callback"
	"github.com/glasswing-labs/decoy/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type scriptedProvider struct {
	output string
	err    error
}

func (s *scriptedProvider) Complete(context.Context, string, string) (string, error) {
	return s.output, s.err
}

func request(sessionID, text string) session.Request {
	return session.Request{
		SessionID: sessionID,
		Message:   session.Turn{Sender: session.RoleScammer, Text: text, Timestamp: time.Now()},
	}
}

func TestProcess_ReturnsDecision(t *testing.T) {
	provider := &scriptedProvider{
		output: `{"scamDetected": true, "agentReply": "oh no, which account?", "shouldTriggerCallback": false}`,
	}
	p := New(analyst.New(provider, discardLogger()), discardLogger())

	got := p.Process(context.Background(), request("sess-1", "your card is blocked"))

	if !got.ScamDetected {
		t.Error("expected scamDetected from provider verdict")
	}
	if got.AgentReply != "oh no, which account?" {
		t.Errorf("reply = %q", got.AgentReply)
	}
}

func TestProcess_CallbackFiresOncePerSession(t *testing.T) {
	var deliveries atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deliveries.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := &scriptedProvider{
		output: `{"scamDetected": true, "agentReply": "ok", "intelligence": {"upiIds": ["x@ybl"]}, "shouldTriggerCallback": true}`,
	}
	notifier := callback.NewNotifier(server.URL, 5*time.Second, discardLogger())
	p := New(analyst.New(provider, discardLogger()), discardLogger(), WithNotifier(notifier))

	p.Process(context.Background(), request("sess-once", "send to x@ybl"))
	p.Process(context.Background(), request("sess-once", "send to x@ybl now"))

	if got := deliveries.Load(); got != 1 {
		t.Errorf("callback deliveries = %d, want exactly 1 per session", got)
	}

	// A different session gets its own callback.
	p.Process(context.Background(), request("sess-other", "send to x@ybl"))
	if got := deliveries.Load(); got != 2 {
		t.Errorf("callback deliveries = %d, want 2 after second session", got)
	}
}

func TestProcess_CallbackSkippedWithoutFlag(t *testing.T) {
	var deliveries atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deliveries.Add(1)
	}))
	defer server.Close()

	provider := &scriptedProvider{
		output: `{"scamDetected": false, "agentReply": "hi", "shouldTriggerCallback": false}`,
	}
	notifier := callback.NewNotifier(server.URL, 5*time.Second, discardLogger())
	p := New(analyst.New(provider, discardLogger()), discardLogger(), WithNotifier(notifier))

	p.Process(context.Background(), request("sess-quiet", "hello there"))

	if got := deliveries.Load(); got != 0 {
		t.Errorf("callback deliveries = %d, want 0", got)
	}
}

func TestProcess_FallbackStillReplies(t *testing.T) {
	provider := &scriptedProvider{err: context.DeadlineExceeded}
	a := analyst.New(provider, discardLogger(), analyst.WithRetry(2, time.Millisecond, time.Second))
	p := New(a, discardLogger())

	got := p.Process(context.Background(), request("sess-fb", "hello"))

	if got.AgentReply != analyst.FallbackReply {
		t.Errorf("reply = %q, want the stall reply", got.AgentReply)
	}
	if !got.ScamDetected {
		t.Error("fallback must report scamDetected = true")
	}
}
