package wiki

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"wikipath/internal/models"
)

func searchHandler(t *testing.T, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "search", q.Get("list"))
		require.Equal(t, "0", q.Get("srnamespace"))
		require.Equal(t, "5", q.Get("srlimit"))
		fmt.Fprint(w, body)
	}
}

func TestResolveTitleExactMatch(t *testing.T) {
	c := newTestClient(t, searchHandler(t,
		`{"query":{"search":[{"ns":0,"title":"Finland"},{"ns":0,"title":"Finland Proper"}]}}`))

	title, err := c.ResolveTitle(context.Background(), "  Finland ")
	require.NoError(t, err)
	require.Equal(t, models.Title("Finland"), title)
}

func TestResolveTitleSuggestsAlternatives(t *testing.T) {
	c := newTestClient(t, searchHandler(t,
		`{"query":{"search":[{"ns":0,"title":"Finland"},{"ns":0,"title":"Finnish language"}]}}`))

	_, err := c.ResolveTitle(context.Background(), "finland")
	var ambiguous *AmbiguousTitleError
	require.True(t, errors.As(err, &ambiguous))
	require.Equal(t, "finland", ambiguous.Input)
	require.Equal(t, []models.Title{"Finland", "Finnish language"}, ambiguous.Suggestions)
	require.Contains(t, err.Error(), "Finnish language")
}

func TestResolveTitleNoHits(t *testing.T) {
	c := newTestClient(t, searchHandler(t, `{"query":{"searchinfo":{"totalhits":0},"search":[]}}`))

	_, err := c.ResolveTitle(context.Background(), "qwxzzy")
	require.ErrorIs(t, err, ErrTitleNotFound)

	_, err = c.ResolveTitle(context.Background(), "   ")
	require.ErrorIs(t, err, ErrTitleNotFound)
}

func TestResolveTitleExactMatchBelowTopHit(t *testing.T) {
	c := newTestClient(t, searchHandler(t,
		`{"query":{"search":[{"ns":0,"title":"Rust (programming language)"},{"ns":0,"title":"Rust"}]}}`))

	title, err := c.ResolveTitle(context.Background(), "Rust")
	require.NoError(t, err)
	require.Equal(t, models.Title("Rust"), title)
}
