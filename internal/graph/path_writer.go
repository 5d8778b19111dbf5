package graph

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"wikipath/internal/logger"
	"wikipath/internal/models"
)

// PathWriter persists found paths as Article nodes joined by LINKS_TO
// relationships.
type PathWriter struct {
	driver DriverSessioner
	logger logger.Logger
}

func NewPathWriter(driver DriverSessioner, log logger.Logger) *PathWriter {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &PathWriter{driver: driver, logger: log}
}

// WritePath merges every hop of path in one write transaction. Paths with
// fewer than two titles have no edges and are skipped.
func (w *PathWriter) WritePath(ctx context.Context, sessionID string, path []models.Title) error {
	if len(path) < 2 {
		return nil
	}
	if sessionID == "" {
		return errors.New("path has no session id")
	}

	query, params := BuildPathQuery(sessionID, path)
	if err := runWrite(ctx, w.driver, w.logger, query, params); err != nil {
		return err
	}
	w.logger.Debug("path written", zap.String("session_id", sessionID), zap.Int("hops", len(path)-1))
	return nil
}

// BuildPathQuery returns a Cypher statement that merges consecutive titles
// of path as (:Article)-[:LINKS_TO]->(:Article), tagging each relationship
// with the session and its position on the path.
func BuildPathQuery(sessionID string, path []models.Title) (string, map[string]any) {
	query := "UNWIND range(0, size($titles) - 2) AS i " +
		"MERGE (from:Article {title: $titles[i]}) " +
		"MERGE (to:Article {title: $titles[i + 1]}) " +
		"MERGE (from)-[r:LINKS_TO]->(to) " +
		"SET r.session_id = $session_id, r.position = i"

	titles := make([]string, len(path))
	for i, t := range path {
		titles[i] = t.String()
	}
	params := map[string]any{
		"titles":     titles,
		"session_id": sessionID,
	}
	return query, params
}
