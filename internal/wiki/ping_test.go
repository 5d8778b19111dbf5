package wiki

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPingRetriesUntilHealthy(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "siteinfo", r.URL.Query().Get("meta"))
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"query":{"general":{"sitename":"Wikipedia","lang":"en"}}}`)
	})

	site, err := c.Ping(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Wikipedia", site)
	require.EqualValues(t, 2, calls.Load())
}

func TestPingFailuresAreConfigErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithPingRetries(1))

	_, err := c.Ping(context.Background())
	require.ErrorIs(t, err, ErrConfig)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not an api</html>`)
	})
	_, err = c.Ping(context.Background())
	require.ErrorIs(t, err, ErrConfig)
}
