package graph

import (
	"context"

	"wikipath/internal/logger"
	"wikipath/internal/models"
)

// EdgeWriter merges single discovered links into the article graph. It is
// fed by the edges topic.
type EdgeWriter struct {
	driver DriverSessioner
	logger logger.Logger
}

func NewEdgeWriter(driver DriverSessioner, log logger.Logger) *EdgeWriter {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &EdgeWriter{driver: driver, logger: log}
}

// WriteEdge merges edge. Edges missing either end are ignored.
func (w *EdgeWriter) WriteEdge(ctx context.Context, edge models.Edge) error {
	if edge.From == "" || edge.To == "" {
		return nil
	}
	query, params := BuildEdgeQuery(edge)
	return runWrite(ctx, w.driver, w.logger, query, params)
}

// BuildEdgeQuery returns a Cypher statement merging edge as
// (:Article)-[:DISCOVERED]->(:Article). The relationship is keyed by
// session, so repeated deliveries of one edge do not duplicate it.
func BuildEdgeQuery(edge models.Edge) (string, map[string]any) {
	query := "MERGE (from:Article {title: $from}) " +
		"MERGE (to:Article {title: $to}) " +
		"MERGE (from)-[r:DISCOVERED {session_id: $session_id}]->(to) " +
		"SET r.depth = $depth"

	params := map[string]any{
		"from":       edge.From.String(),
		"to":         edge.To.String(),
		"session_id": edge.SessionID,
		"depth":      edge.Depth,
	}
	return query, params
}
