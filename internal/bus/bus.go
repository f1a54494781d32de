// Package bus publishes session lifecycle events over NATS so downstream
// consumers (dashboards, enrichment workers) can react to verdicts without
// polling the store.
package bus

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectAnalyzed carries one event per analyzed message.
const SubjectAnalyzed = "honeypot.session.analyzed"

// SubjectReported carries one event per session, emitted when the final
// result callback fires.
const SubjectReported = "honeypot.session.reported"

// AnalyzedEvent is emitted after every turn decision.
type AnalyzedEvent struct {
	SessionID     string    `json:"session_id"`
	ScamDetected  bool      `json:"scam_detected"`
	ItemCount     int       `json:"item_count"`
	TotalMessages int       `json:"total_messages"`
	Fallback      bool      `json:"fallback"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
}

// ReportedEvent is emitted once per session when the callback is delivered.
type ReportedEvent struct {
	SessionID  string    `json:"session_id"`
	ItemCount  int       `json:"item_count"`
	ReportedAt time.Time `json:"reported_at"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func Connect(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	c.conn.Close()
}
