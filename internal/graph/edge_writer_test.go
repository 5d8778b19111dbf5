package graph_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"wikipath/internal/graph"
	"wikipath/internal/models"
	"wikipath/mocks"
)

func TestBuildEdgeQuery(t *testing.T) {
	edge := models.Edge{SessionID: "s-9", From: "Go", To: "Google", Depth: 1}
	query, params := graph.BuildEdgeQuery(edge)

	for _, want := range []string{"MERGE (from:Article {title: $from})", "MERGE (to:Article {title: $to})", "[r:DISCOVERED {session_id: $session_id}]"} {
		if !strings.Contains(query, want) {
			t.Fatalf("query missing %q: %s", want, query)
		}
	}
	if params["from"] != "Go" || params["to"] != "Google" {
		t.Fatalf("unexpected title params: %#v", params)
	}
	if params["session_id"] != "s-9" || params["depth"] != 1 {
		t.Fatalf("unexpected session/depth params: %#v", params)
	}
}

func TestWriteEdge(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	driver := mocks.NewMockDriverSessioner(ctrl)
	session := mocks.NewMockSessionRunner(ctrl)

	driver.EXPECT().
		NewSession(gomock.Any(), neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite}).
		Return(session).Times(2)
	gomock.InOrder(
		session.EXPECT().ExecuteWrite(gomock.Any(), gomock.Any()).Return(nil, nil),
		session.EXPECT().ExecuteWrite(gomock.Any(), gomock.Any()).Return(nil, errors.New("deadlock")),
	)
	session.EXPECT().Close(gomock.Any()).Return(nil).Times(2)

	writer := graph.NewEdgeWriter(driver, nil)
	edge := models.Edge{SessionID: "s", From: "A", To: "B", Depth: 1}
	if err := writer.WriteEdge(context.Background(), edge); err != nil {
		t.Fatalf("WriteEdge returned error: %v", err)
	}
	if err := writer.WriteEdge(context.Background(), edge); err == nil {
		t.Fatal("expected transaction error, got nil")
	}
}

func TestWriteEdgeIgnoresHalfEdges(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := graph.NewEdgeWriter(mocks.NewMockDriverSessioner(ctrl), nil)
	for _, edge := range []models.Edge{{From: "A"}, {To: "B"}} {
		if err := writer.WriteEdge(context.Background(), edge); err != nil {
			t.Fatalf("WriteEdge(%+v) returned error: %v", edge, err)
		}
	}
}
