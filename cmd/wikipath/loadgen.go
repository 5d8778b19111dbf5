package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// loadgenConfig lists the searches to submit to a running API.
type loadgenConfig struct {
	Pairs []searchPair `json:"pairs"`
}

type searchPair struct {
	Start  string `json:"start"`
	Target string `json:"target"`
}

var errNoPairs = errors.New("config has no pairs")

func newLoadgenCommand() *cobra.Command {
	var (
		configPath  string
		apiBase     string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Submit the start/target pairs from a JSON file to a running wikipath API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := runLoadgen(cmd.Context(), cmd.OutOrStdout(), configPath, apiBase, concurrency, nil)
			return err
		},
	}
	cmd.Flags().StringVar(&configPath, "pairs", "pairs.json", `path to a JSON file like {"pairs":[{"start":"A","target":"B"}]}`)
	cmd.Flags().StringVar(&apiBase, "server", "http://localhost:8080", "base URL of the wikipath API")
	cmd.Flags().IntVar(&concurrency, "concurrency", 8, "requests in flight at once")
	return cmd
}

// runLoadgen submits every pair and returns how many were accepted. Failed
// submissions are reported to out but do not fail the run. A nil client
// gets a 30s timeout.
func runLoadgen(ctx context.Context, out io.Writer, configPath, apiBase string, concurrency int, client *http.Client) (int, error) {
	cfg, err := loadLoadgenConfig(configPath)
	if err != nil {
		return 0, err
	}
	baseURL, err := url.Parse(apiBase)
	if err != nil {
		return 0, err
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		accepted atomic.Int64
		outMu    sync.Mutex
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, pair := range cfg.Pairs {
		g.Go(func() error {
			if err := submitPair(gctx, client, baseURL, pair); err != nil {
				outMu.Lock()
				fmt.Fprintf(out, "[%d] %s -> %s: %v\n", i, pair.Start, pair.Target, err)
				outMu.Unlock()
				return nil
			}
			accepted.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(accepted.Load()), err
	}
	fmt.Fprintf(out, "submitted %d pairs, %d accepted\n", len(cfg.Pairs), accepted.Load())
	return int(accepted.Load()), nil
}

func loadLoadgenConfig(path string) (loadgenConfig, error) {
	var cfg loadgenConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if len(cfg.Pairs) == 0 {
		return cfg, errNoPairs
	}
	return cfg, nil
}

func submitPair(ctx context.Context, client *http.Client, base *url.URL, pair searchPair) error {
	u := *base
	u.Path = "/search"
	u.RawQuery = url.Values{"start": {pair.Start}, "target": {pair.Target}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
