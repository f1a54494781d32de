// Package analyst orchestrates the per-turn scam analysis: it asks the
// external judgment provider for a verdict, retries once on failure, merges
// the provider's intelligence with the deterministic extraction, and when the
// provider is unreachable synthesizes a conservative fallback decision. A
// turn always ends with a decision and a reply; the counterpart must never
// observe an upstream failure.
package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glasswing-labs/decoy/internal/extract"
	"github.com/glasswing-labs/decoy/internal/intel"
	"github.com/glasswing-labs/decoy/internal/observability"
	"github.com/glasswing-labs/decoy/internal/session"
)

// Provider is the external natural-language judgment dependency. It must be
// safe for concurrent use; the analyst itself holds no mutable state across
// calls.
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const (
	defaultAttempts       = 2
	defaultBackoff        = 1 * time.Second
	defaultAttemptTimeout = 20 * time.Second
)

// FallbackReply is the human-sounding stall used when the provider is
// unavailable. It must be indistinguishable in kind from a normal reply.
const FallbackReply = "Sorry, I was busy. Can you repeat that?"

// callState enumerates the per-turn orchestration states. The exhaustion
// path is deliberately a first-class state, not a nested else branch.
type callState int

const (
	stateStart callState = iota
	stateCalling
	stateRetryWait
	stateExhausted
	stateMerge
	stateDone
)

type Analyst struct {
	provider       Provider
	logger         *slog.Logger
	metrics        *observability.Metrics
	attempts       int
	backoff        time.Duration
	attemptTimeout time.Duration
}

type Option func(*Analyst)

// WithRetry overrides the provider retry budget. The total external-call
// latency is bounded by attempts*attemptTimeout plus (attempts-1)*backoff,
// which MaxLatency reports so callers can set an outer deadline.
func WithRetry(attempts int, backoff, attemptTimeout time.Duration) Option {
	return func(a *Analyst) {
		if attempts > 0 {
			a.attempts = attempts
		}
		if backoff > 0 {
			a.backoff = backoff
		}
		if attemptTimeout > 0 {
			a.attemptTimeout = attemptTimeout
		}
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(a *Analyst) {
		a.metrics = m
	}
}

func New(provider Provider, logger *slog.Logger, opts ...Option) *Analyst {
	a := &Analyst{
		provider:       provider,
		logger:         logger,
		attempts:       defaultAttempts,
		backoff:        defaultBackoff,
		attemptTimeout: defaultAttemptTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MaxLatency is the worst-case wall time Analyze can spend on the provider.
func (a *Analyst) MaxLatency() time.Duration {
	return time.Duration(a.attempts)*a.attemptTimeout + time.Duration(a.attempts-1)*a.backoff
}

// Analyze runs the decision pipeline for one incoming turn. It never fails:
// every path, including total provider exhaustion, produces a Decision.
func (a *Analyst) Analyze(ctx context.Context, req session.Request) Decision {
	var (
		state    = stateStart
		attempt  int
		lastErr  error
		decision Decision
		convText string
	)

	for state != stateDone {
		switch state {
		case stateStart:
			convText = conversationText(req)
			a.logger.Info("calling provider", "session_id", req.SessionID, "turns", req.TotalMessages())
			state = stateCalling

		case stateCalling:
			attempt++
			d, err := a.callProvider(ctx, convText)
			if err == nil {
				if a.metrics != nil {
					a.metrics.ProviderAttempts.WithLabelValues("success").Inc()
				}
				decision = d
				state = stateMerge
				continue
			}
			lastErr = err
			if a.metrics != nil {
				a.metrics.ProviderAttempts.WithLabelValues("failure").Inc()
			}
			a.logger.Warn("provider attempt failed",
				"session_id", req.SessionID,
				"attempt", attempt,
				"error", err,
			)
			if attempt < a.attempts {
				state = stateRetryWait
			} else {
				state = stateExhausted
			}

		case stateRetryWait:
			select {
			case <-time.After(a.backoff):
				state = stateCalling
			case <-ctx.Done():
				lastErr = fmt.Errorf("backoff interrupted: %w", ctx.Err())
				state = stateExhausted
			}

		case stateExhausted:
			if a.metrics != nil {
				a.metrics.ProviderFallbacks.Inc()
			}
			a.logger.Warn("all provider attempts failed, using deterministic fallback",
				"session_id", req.SessionID,
				"attempts", attempt,
				"error", lastErr,
			)
			decision = a.fallback(req, attempt, lastErr)
			state = stateMerge

		case stateMerge:
			// Deterministic extraction runs unconditionally so concrete
			// identifiers the provider missed are still captured. Merge is
			// idempotent, so the fallback path loses nothing here.
			decision.Intelligence = intel.Merge(decision.Intelligence, extract.FromRequest(req))
			state = stateDone
		}
	}

	a.logger.Info("analysis complete",
		"session_id", req.SessionID,
		"scam_detected", decision.ScamDetected,
		"intel_items", decision.Intelligence.ItemCount(),
		"callback", decision.ShouldTriggerCallback,
	)
	return decision
}

func (a *Analyst) callProvider(ctx context.Context, convText string) (Decision, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, a.attemptTimeout)
	defer cancel()

	raw, err := a.provider.Complete(attemptCtx, systemPrompt, convText)
	if err != nil {
		return Decision{}, fmt.Errorf("provider call: %w", err)
	}
	return parseDecision(raw)
}

// parseDecision validates the provider's structured output. Anything that is
// not a JSON object with the expected field types counts as a provider
// failure and flows into the retry budget.
func parseDecision(raw string) (Decision, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return Decision{}, fmt.Errorf("provider returned non-object output")
	}
	var d Decision
	if err := json.Unmarshal([]byte(trimmed), &d); err != nil {
		return Decision{}, fmt.Errorf("parse provider output: %w", err)
	}
	return d, nil
}

// fallback is the conservative decision when the provider never answered:
// absence of signal is treated as risk, not safety.
func (a *Analyst) fallback(req session.Request, attempts int, cause error) Decision {
	det := extract.FromRequest(req)
	return Decision{
		ScamDetected:          true,
		AgentReply:            FallbackReply,
		AgentNotes:            fmt.Sprintf("provider failed after %d attempts: %v", attempts, cause),
		Intelligence:          det,
		ShouldTriggerCallback: det.HasFindings(),
	}
}

// conversationText renders the session for the provider: the id, optional
// metadata, and every turn as "[timestamp] sender: text", new message last.
func conversationText(req session.Request) string {
	lines := []string{fmt.Sprintf("sessionId: %s", req.SessionID)}
	if req.Metadata != nil {
		lines = append(lines, fmt.Sprintf("channel=%s, language=%s, locale=%s",
			req.Metadata.Channel, req.Metadata.Language, req.Metadata.Locale))
	}
	lines = append(lines, "", "Conversation so far:")
	for _, turn := range req.Turns() {
		lines = append(lines, fmt.Sprintf("[%s] %s: %s",
			turn.Timestamp.UTC().Format(time.RFC3339), turn.Sender, turn.Text))
	}
	return strings.Join(lines, "\n")
}
