package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"wikipath/internal/logger"
	"wikipath/internal/models"
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher sends discovered edges and failed fetches to Kafka. It
// satisfies crawler.Observer.
type Publisher struct {
	edges  MessageWriter
	dlq    MessageWriter
	logger logger.Logger
}

// NewPublisher creates async writers for the edges and dead-letter topics.
// An empty dlqTopic disables the dead-letter writer.
func NewPublisher(broker, edgesTopic, dlqTopic string, log logger.Logger) *Publisher {
	var dlq MessageWriter
	if dlqTopic != "" {
		dlq = newWriter(broker, dlqTopic)
	}
	return NewPublisherWithWriters(newWriter(broker, edgesTopic), dlq, log)
}

func newWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		Async:                  true,
		AllowAutoTopicCreation: false,
	}
}

// NewPublisherWithWriters builds a publisher around custom writers (tests).
func NewPublisherWithWriters(edges, dlq MessageWriter, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Publisher{edges: edges, dlq: dlq, logger: log}
}

// Close flushes and closes both writers.
func (p *Publisher) Close() error {
	var errs []error
	if p.edges != nil {
		errs = append(errs, p.edges.Close())
	}
	if p.dlq != nil {
		errs = append(errs, p.dlq.Close())
	}
	return errors.Join(errs...)
}

// WriteEdge publishes an edge keyed by session so a session's edges stay
// on one partition.
func (p *Publisher) WriteEdge(ctx context.Context, edge models.Edge) error {
	return write(ctx, p.edges, edge.SessionID, edge)
}

// WriteFailure publishes a failed fetch to the dead-letter topic.
func (p *Publisher) WriteFailure(ctx context.Context, failure models.FetchFailure) error {
	if p.dlq == nil {
		return nil
	}
	return write(ctx, p.dlq, failure.SessionID, failure)
}

// LinkDiscovered implements crawler.Observer.
func (p *Publisher) LinkDiscovered(ctx context.Context, edge models.Edge) {
	if err := p.WriteEdge(ctx, edge); err != nil {
		p.logger.Warn("edge publish failed",
			zap.String("session_id", edge.SessionID),
			zap.String("to", edge.To.String()),
			zap.Error(err),
		)
	}
}

// FetchFailed implements crawler.Observer.
func (p *Publisher) FetchFailed(ctx context.Context, failure models.FetchFailure) {
	if err := p.WriteFailure(ctx, failure); err != nil {
		p.logger.Warn("dlq publish failed",
			zap.String("session_id", failure.SessionID),
			zap.String("title", failure.Title.String()),
			zap.Error(err),
		)
	}
}

func write(ctx context.Context, w MessageWriter, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now().UTC(),
	}
	return w.WriteMessages(ctx, msg)
}

// Ping dials the broker and returns the number of partitions it reports
// for topics, or for every topic when none are given.
func Ping(ctx context.Context, broker string, topics ...string) (int, error) {
	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		return 0, fmt.Errorf("connect to kafka at %s: %w", broker, err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(topics...)
	if err != nil {
		return 0, fmt.Errorf("read metadata: %w", err)
	}
	return len(partitions), nil
}
