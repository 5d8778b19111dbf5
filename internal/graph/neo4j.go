package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"wikipath/internal/logger"
)

// SessionRunner abstracts neo4j.SessionWithContext.
type SessionRunner interface {
	ExecuteWrite(ctx context.Context, work neo4j.ManagedTransactionWork, configurers ...func(*neo4j.TransactionConfig)) (any, error)
	Close(ctx context.Context) error
}

// DriverSessioner abstracts neo4j.DriverWithContext.
type DriverSessioner interface {
	NewSession(ctx context.Context, config neo4j.SessionConfig) SessionRunner
	Close(ctx context.Context) error
}

// Driver adapts neo4j.DriverWithContext to DriverSessioner.
type Driver struct {
	driver neo4j.DriverWithContext
}

// NewDriver connects to Neo4j with basic auth.
func NewDriver(uri, user, password string) (*Driver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}
	return &Driver{driver: driver}, nil
}

func (d *Driver) NewSession(ctx context.Context, config neo4j.SessionConfig) SessionRunner {
	return d.driver.NewSession(ctx, config)
}

// VerifyConnectivity checks that the server is reachable with the given
// credentials.
func (d *Driver) VerifyConnectivity(ctx context.Context) error {
	return d.driver.VerifyConnectivity(ctx)
}

func (d *Driver) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

// runWrite runs query in its own write session and transaction.
func runWrite(ctx context.Context, driver DriverSessioner, log logger.Logger, query string, params map[string]any) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		if err := session.Close(ctx); err != nil {
			log.Warn("neo4j session close failed", zap.Error(err))
		}
	}()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, params)
		return nil, err
	})
	return err
}
