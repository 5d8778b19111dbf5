package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	kgo "github.com/segmentio/kafka-go"

	"wikipath/internal/kafka"
	"wikipath/internal/models"
	"wikipath/mocks"
)

type recordingHandler struct {
	written []models.Edge
	failOn  models.Title
}

func (h *recordingHandler) WriteEdge(_ context.Context, edge models.Edge) error {
	if edge.To == h.failOn {
		return errors.New("neo4j unavailable")
	}
	h.written = append(h.written, edge)
	return nil
}

func edgeMessage(t *testing.T, offset int64, edge models.Edge) kgo.Message {
	t.Helper()
	payload, err := json.Marshal(edge)
	if err != nil {
		t.Fatal(err)
	}
	return kgo.Message{Offset: offset, Key: []byte(edge.SessionID), Value: payload}
}

func TestEdgeConsumerCommitsHandledMessages(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good := edgeMessage(t, 0, models.Edge{SessionID: "s", From: "A", To: "B", Depth: 1})
	malformed := kgo.Message{Offset: 1, Value: []byte("{not json")}
	rejected := edgeMessage(t, 2, models.Edge{SessionID: "s", From: "A", To: "Fail", Depth: 1})

	reader := mocks.NewMockMessageReader(ctrl)
	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(good, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), good).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(malformed, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), malformed).Return(nil),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(rejected, nil),
		reader.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(func(ctx context.Context) (kgo.Message, error) {
			cancel()
			return kgo.Message{}, ctx.Err()
		}),
	)

	handler := &recordingHandler{failOn: "Fail"}
	done := make(chan error, 1)
	go func() { done <- kafka.NewEdgeConsumer(reader, handler, nil).Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}

	if len(handler.written) != 1 || handler.written[0].To != "B" {
		t.Fatalf("unexpected written edges: %+v", handler.written)
	}
}

func TestEdgeConsumerCommitErrorKeepsConsuming(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := edgeMessage(t, 0, models.Edge{SessionID: "s", From: "A", To: "B"})
	second := edgeMessage(t, 1, models.Edge{SessionID: "s", From: "B", To: "C"})

	reader := mocks.NewMockMessageReader(ctrl)
	gomock.InOrder(
		reader.EXPECT().FetchMessage(gomock.Any()).Return(first, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), first).Return(errors.New("rebalance in progress")),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(second, nil),
		reader.EXPECT().CommitMessages(gomock.Any(), second).DoAndReturn(func(context.Context, ...kgo.Message) error {
			cancel()
			return nil
		}),
		reader.EXPECT().FetchMessage(gomock.Any()).Return(kgo.Message{}, context.Canceled),
	)

	handler := &recordingHandler{}
	if err := kafka.NewEdgeConsumer(reader, handler, nil).Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(handler.written) != 2 {
		t.Fatalf("expected 2 written edges, got %d", len(handler.written))
	}
}
