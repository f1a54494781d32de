package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/glasswing-labs/decoy/internal/analyst"
	"github.com/glasswing-labs/decoy/internal/session"
)

// intelBuckets maps bucket names to their slices for the item table insert.
func intelBuckets(d analyst.Decision) map[string][]string {
	return map[string][]string{
		"bank_account":       d.Intelligence.BankAccounts,
		"upi_id":             d.Intelligence.UpiIDs,
		"phishing_link":      d.Intelligence.PhishingLinks,
		"phone_number":       d.Intelligence.PhoneNumbers,
		"email_address":      d.Intelligence.EmailAddresses,
		"suspicious_keyword": d.Intelligence.SuspiciousKeywords,
	}
}

// WriteDecision archives one turn's verdict and its intelligence items.
// Tables: decisions, decision_intel.
func (s *Store) WriteDecision(ctx context.Context, req session.Request, d analyst.Decision, fallback bool) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	decisionID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO decisions (id, session_id, scam_detected, agent_reply, agent_notes, total_messages, fallback, callback_flag, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`,
		decisionID, req.SessionID, d.ScamDetected, d.AgentReply, d.AgentNotes,
		req.TotalMessages(), fallback, d.ShouldTriggerCallback,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert decision: %w", err)
	}

	for bucket, items := range intelBuckets(d) {
		for _, item := range items {
			_, err = tx.Exec(ctx, `
				INSERT INTO decision_intel (id, decision_id, bucket, value)
				VALUES ($1, $2, $3, $4)`,
				uuid.New(), decisionID, bucket, item,
			)
			if err != nil {
				return uuid.Nil, fmt.Errorf("insert intel item: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}

	return decisionID, nil
}

// SessionDecisionCount reports how many decisions have been archived for a
// session, used for operational queries rather than the analysis path.
func (s *Store) SessionDecisionCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM decisions WHERE session_id = $1`,
		sessionID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count decisions: %w", err)
	}
	return count, nil
}
