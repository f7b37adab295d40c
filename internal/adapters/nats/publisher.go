package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geostory/internal/core/domain"
)

// Subjects for pipeline events. The WebSocket relay subscribes to
// "geostory.pipeline.>".
const (
	subjectRunCompleted = "geostory.pipeline.run.completed"
	subjectDocFailed    = "geostory.pipeline.doc.failed"
	subjectBroadcast    = "geostory.updates.broadcast"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and ensures the pipeline event stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      "PIPELINE_EVENTS",
		Subjects:  []string{"geostory.pipeline.>"},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist — try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishRunCompleted publishes the final record of a pipeline run.
func (p *Publisher) PublishRunCompleted(ctx context.Context, run *domain.PipelineRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subjectRunCompleted, data)
	return err
}

// PublishDocumentFailed publishes one document's fetch or analysis failure.
func (p *Publisher) PublishDocumentFailed(ctx context.Context, cid, stage, reason string) error {
	data, err := json.Marshal(map[string]string{
		"cid":    cid,
		"stage":  stage,
		"reason": reason,
	})
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subjectDocFailed, data)
	return err
}

// PublishBroadcast sends data to all live listeners, bypassing JetStream.
func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	return p.conn.Publish(subjectBroadcast, data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. the
// WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
