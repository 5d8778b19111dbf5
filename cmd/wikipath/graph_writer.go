package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"wikipath/internal/config"
	"wikipath/internal/graph"
	"wikipath/internal/kafka"
	"wikipath/internal/telemetry"
)

func newGraphWriterCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "graph-writer",
		Short: "Consume discovered links from Kafka and merge them into Neo4j",
		Long: `graph-writer reads the edges topic that searches publish to when a Kafka
broker is configured and merges every link into Neo4j as
(:Article)-[:DISCOVERED]->(:Article). It needs --kafka-broker and --neo4j-uri.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := loadEnvironment(v, nil)
			if err != nil {
				return err
			}
			defer func() { _ = env.log.Sync() }()
			return env.runGraphWriter(cmd.Context())
		},
	}
}

func (e *environment) runGraphWriter(ctx context.Context) error {
	k, n := e.cfg.Kafka, e.cfg.Neo4j
	if k.Broker == "" || n.URI == "" {
		return fmt.Errorf("%w: graph-writer needs both a kafka broker and a neo4j uri", config.ErrInvalid)
	}

	driver, err := graph.NewDriver(n.URI, n.User, n.Password)
	if err != nil {
		return fmt.Errorf("%w: neo4j at %s: %w", config.ErrInvalid, n.URI, err)
	}
	defer func() {
		if err := driver.Close(context.Background()); err != nil {
			e.log.Warn("neo4j close failed", zap.Error(err))
		}
	}()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("%w: neo4j at %s: %w", config.ErrInvalid, n.URI, err)
	}

	reader := kafka.NewEdgeReader(k.Broker, k.EdgesTopic, k.EdgesGroup)
	defer func() {
		if err := reader.Close(); err != nil {
			e.log.Warn("edge reader close failed", zap.Error(err))
		}
	}()

	if e.cfg.Metrics.Enabled {
		telemetry.StartServer(ctx, e.cfg.Metrics.Addr, e.log)
	}

	e.log.Info("graph writer consuming",
		zap.String("topic", k.EdgesTopic),
		zap.String("group", k.EdgesGroup),
	)
	writer := graph.NewEdgeWriter(driver, e.log.With(zap.String("component", "neo4j")))
	return kafka.NewEdgeConsumer(reader, writer, e.log.With(zap.String("component", "kafka"))).Run(ctx)
}
