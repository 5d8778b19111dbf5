package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"wikipath/internal/crawler"
	"wikipath/internal/models"
)

func formatPath(path []models.Title) string {
	parts := make([]string, len(path))
	for i, t := range path {
		parts[i] = t.String()
	}
	return strings.Join(parts, " -> ")
}

// printResult reports a finished search. Not found and depth exceeded get
// distinct messages.
func printResult(w io.Writer, res *crawler.Result) {
	elapsed := res.Elapsed.Round(time.Millisecond)
	switch res.Outcome {
	case crawler.OutcomeFound:
		fmt.Fprintln(w, formatPath(res.Path))
		fmt.Fprintf(w, "%d links, %d articles visited in %s\n", len(res.Path)-1, res.Visited, elapsed)
	case crawler.OutcomeDepthExceeded:
		fmt.Fprintf(w, "No path from '%s' to '%s' within %d links (%d articles visited in %s)\n",
			res.Start, res.Target, res.MaxDepth, res.Visited, elapsed)
	default:
		fmt.Fprintf(w, "No path found from '%s' to '%s': all %d reachable articles visited in %s\n",
			res.Start, res.Target, res.Visited, elapsed)
	}
	if res.FetchFailures > 0 {
		fmt.Fprintf(w, "%d articles could not be fetched and were skipped\n", res.FetchFailures)
	}
}

// progressObserver prints a line every `every` discovered articles. It is
// called from the search coordinator only, so it needs no locking.
type progressObserver struct {
	out        io.Writer
	every      int
	discovered int
}

func newProgressObserver(out io.Writer, every int) *progressObserver {
	if every < 1 {
		every = 1
	}
	return &progressObserver{out: out, every: every}
}

func (p *progressObserver) LinkDiscovered(_ context.Context, _ models.Edge) {
	p.discovered++
	if p.discovered%p.every == 0 {
		fmt.Fprintf(p.out, "Crawling, analyzed %d articles...\n", p.discovered)
	}
}

func (p *progressObserver) FetchFailed(context.Context, models.FetchFailure) {}
