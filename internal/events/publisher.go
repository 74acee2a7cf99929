package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/oliviakdata/data-jobs-postings/internal/config"
	"github.com/oliviakdata/data-jobs-postings/internal/errors"
	"github.com/oliviakdata/data-jobs-postings/internal/telemetry"
)

var tracer = telemetry.GetTracer("data-jobs-postings/events")

const (
	RunCompletedSubject = "insights.run.completed"
)

// TableStat summarizes one computed table for downstream consumers.
type TableStat struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// RunCompletedEvent announces a finished insights run.
type RunCompletedEvent struct {
	RunID          string      `json:"run_id"`
	Country        string      `json:"country"`
	DatasetRecords int         `json:"dataset_records"`
	Tables         []TableStat `json:"tables"`
	Charts         []string    `json:"charts"`
	CompletedAt    time.Time   `json:"completed_at"`
}

type Publisher interface {
	PublishRunCompleted(ctx context.Context, event RunCompletedEvent) error
	Close()
}

type natsPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

func NewPublisher(logger *zap.Logger, cfg *config.Config) (Publisher, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.NATSConnTimeout),
		nats.Name("insights"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	}

	conn, err := nats.Connect(cfg.NATSURL, opts...)
	if err != nil {
		return nil, errors.Unavailable("connecting to NATS", err)
	}

	return &natsPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

func (p *natsPublisher) PublishRunCompleted(ctx context.Context, event RunCompletedEvent) error {
	_, span := tracer.Start(ctx, "PublishRunCompleted")
	defer span.End()

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return errors.Internal("marshaling run event", err)
	}

	span.SetAttributes(
		telemetry.String("nats.subject", RunCompletedSubject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(RunCompletedSubject, data); err != nil {
		span.RecordError(err)
		p.logger.Error("failed to publish run event",
			zap.String("run_id", event.RunID),
			zap.Error(err))
		return errors.Internal("publishing to NATS", err)
	}

	p.logger.Debug("published run event",
		zap.String("run_id", event.RunID),
		zap.String("subject", RunCompletedSubject))
	return nil
}

func (p *natsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
