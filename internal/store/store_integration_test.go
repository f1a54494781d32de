//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/glasswing-labs/decoy/internal/analyst"
	"github.com/glasswing-labs/decoy/internal/intel"
	"github.com/glasswing-labs/decoy/internal/session"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	s, err := New(context.Background(), url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestIntegration_WriteDecision(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	req := session.Request{
		SessionID: "it-sess-1",
		Message:   session.Turn{Sender: session.RoleScammer, Text: "send to x@ybl"},
	}
	decision := analyst.Decision{
		ScamDetected: true,
		AgentReply:   "which bank is that?",
		Intelligence: intel.Set{UpiIDs: []string{"x@ybl"}},
	}

	id, err := s.WriteDecision(ctx, req, decision, false)
	if err != nil {
		t.Fatalf("write decision: %v", err)
	}
	if id.String() == "" {
		t.Fatal("expected a decision id")
	}

	count, err := s.SessionDecisionCount(ctx, "it-sess-1")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count < 1 {
		t.Errorf("decision count = %d, want at least 1", count)
	}
}
