package crawler

import (
	"context"

	"wikipath/internal/models"
)

// Searcher creates search sessions over a LinkFetcher. It holds no search
// state itself, so concurrent searches are independent.
type Searcher struct {
	fetcher LinkFetcher
	opts    options
}

func NewSearcher(fetcher LinkFetcher, opts ...Option) *Searcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Searcher{fetcher: fetcher, opts: o}
}

// NewSession initializes a session with the start title as its only visited
// title and frontier member.
func (s *Searcher) NewSession(start, target models.Title) (*Session, error) {
	return newSession(s.opts.newSessionID(), start, target, s.fetcher, s.opts)
}

// Search runs a fresh session to completion.
func (s *Searcher) Search(ctx context.Context, start, target models.Title, maxDepth int) (*Result, error) {
	session, err := s.NewSession(start, target)
	if err != nil {
		return nil, err
	}
	return session.Run(ctx, maxDepth)
}
