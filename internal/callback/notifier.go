// Package callback delivers the final per-session verdict to the upstream
// reporting endpoint once a session's intelligence is deemed sufficient.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/glasswing-labs/decoy/internal/analyst"
	"github.com/glasswing-labs/decoy/internal/session"
)

// payloadIntel is the intelligence shape the reporting endpoint accepts.
// It predates the email bucket, so emails ride along in upiIds only when
// they classified as payment handles.
type payloadIntel struct {
	BankAccounts       []string `json:"bankAccounts"`
	UpiIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

type payload struct {
	SessionID              string       `json:"sessionId"`
	ScamDetected           bool         `json:"scamDetected"`
	TotalMessagesExchanged int          `json:"totalMessagesExchanged"`
	ExtractedIntelligence  payloadIntel `json:"extractedIntelligence"`
	AgentNotes             string       `json:"agentNotes"`
}

type Notifier struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewNotifier(url string, timeout time.Duration, logger *slog.Logger) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Send reports the final decision for a session. The endpoint treats each
// delivery as authoritative, so callers must gate on first-sufficiency.
func (n *Notifier) Send(ctx context.Context, req session.Request, decision analyst.Decision) error {
	body, err := json.Marshal(payload{
		SessionID:              req.SessionID,
		ScamDetected:           decision.ScamDetected,
		TotalMessagesExchanged: req.TotalMessages(),
		ExtractedIntelligence: payloadIntel{
			BankAccounts:       nonNil(decision.Intelligence.BankAccounts),
			UpiIDs:             nonNil(decision.Intelligence.UpiIDs),
			PhishingLinks:      nonNil(decision.Intelligence.PhishingLinks),
			PhoneNumbers:       nonNil(decision.Intelligence.PhoneNumbers),
			SuspiciousKeywords: nonNil(decision.Intelligence.SuspiciousKeywords),
		},
		AgentNotes: decision.AgentNotes,
	})
	if err != nil {
		return fmt.Errorf("marshal callback payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	n.logger.Info("sending result callback",
		"session_id", req.SessionID,
		"scam_detected", decision.ScamDetected,
		"total_messages", req.TotalMessages())

	resp, err := n.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("callback post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("callback endpoint returned %d", resp.StatusCode)
	}

	n.logger.Info("result callback delivered", "session_id", req.SessionID, "status", resp.StatusCode)
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
