// Package processor orchestrates the per-message pipeline: analyze, record
// metrics, archive, publish, and fire the one-time result callback.
package processor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/glasswing-labs/decoy/internal/analyst"
	"github.com/glasswing-labs/decoy/internal/bus"
	"github.com/glasswing-labs/decoy/internal/callback"
	"github.com/glasswing-labs/decoy/internal/observability"
	"github.com/glasswing-labs/decoy/internal/session"
	"github.com/glasswing-labs/decoy/internal/store"
)

type Processor struct {
	analyst  *analyst.Analyst
	store    *store.Store
	bus      *bus.Client
	notifier *callback.Notifier
	metrics  *observability.Metrics
	logger   *slog.Logger

	mu       sync.Mutex
	reported map[string]bool // sessions whose callback already fired
}

// Option configures optional pipeline stages. Every stage except the
// analyst may be absent.
type Option func(*Processor)

func WithStore(s *store.Store) Option {
	return func(p *Processor) { p.store = s }
}

func WithBus(b *bus.Client) Option {
	return func(p *Processor) { p.bus = b }
}

func WithNotifier(n *callback.Notifier) Option {
	return func(p *Processor) { p.notifier = n }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

func New(a *analyst.Analyst, logger *slog.Logger, opts ...Option) *Processor {
	p := &Processor{
		analyst:  a,
		logger:   logger,
		reported: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs one message through the pipeline and returns the decision.
// Archive, bus, and callback failures are logged but never surface to the
// caller; the reply must go out regardless.
func (p *Processor) Process(ctx context.Context, req session.Request) analyst.Decision {
	started := time.Now()
	decision := p.analyst.Analyze(ctx, req)
	fallback := decision.AgentReply == analyst.FallbackReply

	if p.metrics != nil {
		p.metrics.RecordDecision(decision.ScamDetected)
		p.metrics.ObserveAnalyzeDuration(time.Since(started))
	}

	p.logger.Info("message analyzed",
		"session_id", req.SessionID,
		"scam_detected", decision.ScamDetected,
		"intel_items", decision.Intelligence.ItemCount(),
		"fallback", fallback,
		"elapsed", time.Since(started))

	if p.store != nil {
		if _, err := p.store.WriteDecision(ctx, req, decision, fallback); err != nil {
			p.logger.Error("decision archive failed", "session_id", req.SessionID, "error", err)
		}
	}

	if p.bus != nil {
		event := bus.AnalyzedEvent{
			SessionID:     req.SessionID,
			ScamDetected:  decision.ScamDetected,
			ItemCount:     decision.Intelligence.ItemCount(),
			TotalMessages: req.TotalMessages(),
			Fallback:      fallback,
			AnalyzedAt:    time.Now().UTC(),
		}
		if err := p.bus.Publish(bus.SubjectAnalyzed, event); err != nil {
			p.logger.Error("bus publish failed", "subject", bus.SubjectAnalyzed, "error", err)
		}
	}

	if decision.ShouldTriggerCallback {
		p.maybeReport(ctx, req, decision)
	}

	return decision
}

// maybeReport fires the final result callback at most once per session.
func (p *Processor) maybeReport(ctx context.Context, req session.Request, decision analyst.Decision) {
	p.mu.Lock()
	if p.reported[req.SessionID] {
		p.mu.Unlock()
		return
	}
	p.reported[req.SessionID] = true
	p.mu.Unlock()

	if p.notifier == nil {
		return
	}

	err := p.notifier.Send(ctx, req, decision)
	if p.metrics != nil {
		p.metrics.RecordCallback(err == nil)
	}
	if err != nil {
		p.logger.Error("result callback failed", "session_id", req.SessionID, "error", err)
		// Leave the session marked so a flapping endpoint does not get
		// duplicate reports on later turns.
		return
	}

	if p.bus != nil {
		event := bus.ReportedEvent{
			SessionID:  req.SessionID,
			ItemCount:  decision.Intelligence.ItemCount(),
			ReportedAt: time.Now().UTC(),
		}
		if err := p.bus.Publish(bus.SubjectReported, event); err != nil {
			p.logger.Error("bus publish failed", "subject", bus.SubjectReported, "error", err)
		}
	}
}
