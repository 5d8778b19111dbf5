package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wikipath/internal/graph"
	"wikipath/internal/kafka"
	"wikipath/internal/store"
	"wikipath/internal/wiki"
)

var errChecksFailed = errors.New("connectivity checks failed")

func newCheckCommand(v *viper.Viper) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "check [api-url]",
		Short: "Check the API, the bot login, and any configured Kafka, Redis or Neo4j backend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(v, args)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return env.check(ctx, cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "overall time limit for the checks")
	return cmd
}

type checkReport struct {
	out    io.Writer
	total  int
	failed int
}

func (r *checkReport) add(name, detail string, err error) {
	r.total++
	if err != nil {
		r.failed++
		fmt.Fprintf(r.out, "FAIL  %-6s %v\n", name, err)
		return
	}
	fmt.Fprintf(r.out, "ok    %-6s %s\n", name, detail)
}

// check runs every applicable probe, printing one line per probe, and fails
// if any probe failed.
func (e *environment) check(ctx context.Context, out io.Writer) error {
	report := &checkReport{out: out}

	client, err := e.wikiClient()
	if err != nil {
		report.add("api", "", err)
	} else {
		site, err := client.Ping(ctx)
		report.add("api", fmt.Sprintf("%s at %s", site, client.APIURL()), err)

		if creds, err := wiki.LoadCredentials(e.cfg.SecretsFile); err != nil {
			report.add("login", "", err)
		} else {
			report.add("login", creds.Username, client.Login(ctx, creds))
		}
	}

	if k := e.cfg.Kafka; k.Broker != "" {
		n, err := kafka.Ping(ctx, k.Broker, k.EdgesTopic)
		report.add("kafka", fmt.Sprintf("%s (%d partitions)", k.Broker, n), err)
	}

	if r := e.cfg.Redis; r.Addr != "" {
		st := store.NewRedisStatusStore(r.Addr, r.Prefix, r.TTL)
		report.add("redis", r.Addr, st.Ping(ctx))
		_ = st.Close()
	}

	if n := e.cfg.Neo4j; n.URI != "" {
		driver, err := graph.NewDriver(n.URI, n.User, n.Password)
		if err == nil {
			err = driver.VerifyConnectivity(ctx)
			_ = driver.Close(context.Background())
		}
		report.add("neo4j", n.URI, err)
	}

	if report.failed > 0 {
		return fmt.Errorf("%w: %d of %d", errChecksFailed, report.failed, report.total)
	}
	return nil
}
