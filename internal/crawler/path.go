package crawler

import (
	"fmt"
	"slices"

	"wikipath/internal/models"
)

// BuildPath follows parent links from target back to the start and returns
// the titles in start-to-target order.
func (s *Session) BuildPath(target models.Title) ([]models.Title, error) {
	if _, ok := s.visited[target]; !ok {
		return nil, fmt.Errorf("%w: build path to %q: title was never visited", ErrInvariantViolation, target)
	}

	path := []models.Title{target}
	cur := target
	for cur != s.start {
		parent, ok := s.visited[cur]
		if !ok || parent == models.NoParent {
			return nil, fmt.Errorf("%w: parent chain of %q breaks at %q", ErrInvariantViolation, target, cur)
		}
		if len(path) > len(s.visited) {
			return nil, fmt.Errorf("%w: parent chain of %q has a cycle", ErrInvariantViolation, target)
		}
		path = append(path, parent)
		cur = parent
	}

	slices.Reverse(path)
	return path, nil
}
