package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"wikipath/internal/logger"
	"wikipath/internal/models"
	"wikipath/internal/telemetry"
)

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EdgeHandler stores one consumed edge.
type EdgeHandler interface {
	WriteEdge(ctx context.Context, edge models.Edge) error
}

// NewEdgeReader creates a consumer-group reader for the edges topic.
func NewEdgeReader(broker, topic, group string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: group,
	})
}

// EdgeConsumer feeds edges from the edges topic to a handler, committing
// each message once the handler has stored it.
type EdgeConsumer struct {
	reader     MessageReader
	handler    EdgeHandler
	logger     logger.Logger
	retryDelay time.Duration
}

func NewEdgeConsumer(reader MessageReader, handler EdgeHandler, log logger.Logger) *EdgeConsumer {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &EdgeConsumer{
		reader:     reader,
		handler:    handler,
		logger:     log,
		retryDelay: 500 * time.Millisecond,
	}
}

// Run consumes until ctx is cancelled. Malformed messages are committed
// and dropped; messages the handler rejects are left uncommitted.
func (c *EdgeConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("edge fetch failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryDelay):
			}
			continue
		}

		var edge models.Edge
		if err := json.Unmarshal(msg.Value, &edge); err != nil {
			telemetry.EdgeConsumed("malformed")
			c.logger.Warn("dropping malformed edge",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			c.commit(ctx, msg)
			continue
		}

		if err := c.handler.WriteEdge(ctx, edge); err != nil {
			telemetry.EdgeConsumed("failed")
			c.logger.Warn("edge write failed",
				zap.String("session_id", edge.SessionID),
				zap.String("to", edge.To.String()),
				zap.Error(err),
			)
			continue
		}
		telemetry.EdgeConsumed("written")
		c.commit(ctx, msg)
	}
}

func (c *EdgeConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
		c.logger.Warn("edge commit failed",
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
	}
}
