package database

import (
	"context"
	"fmt"

	apperrors "vocab-graph/errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Neo4jStore is the persistent vocabulary and learner graph. A store created
// without a reachable server is disabled: every call returns
// ErrServiceUnavailable so callers can fall back to the in-memory index.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewNeo4jStore connects and verifies the server. Connection failures do not
// abort startup; they produce a disabled store.
func NewNeo4jStore(ctx context.Context, uri, user, password string, logger *zap.Logger) *Neo4jStore {
	store := &Neo4jStore{logger: logger}
	if uri == "" {
		logger.Info("Neo4j URI not configured, running without graph database")
		return store
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		logger.Warn("Neo4j driver creation failed, running without graph database", zap.Error(err))
		return store
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		logger.Warn("Neo4j connection error, running without graph database",
			zap.String("uri", uri),
			zap.Error(err))
		_ = driver.Close(ctx)
		return store
	}

	logger.Info("Neo4j connection established", zap.String("uri", uri))
	store.driver = driver
	return store
}

// Enabled reports whether the store is connected.
func (s *Neo4jStore) Enabled() bool {
	return s != nil && s.driver != nil
}

// Close releases the driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	return s.driver.Close(ctx)
}

func (s *Neo4jStore) unavailable() error {
	return apperrors.WrapError(apperrors.ErrServiceUnavailable, "neo4j driver not initialized")
}

// collect runs a query in a session of the given mode and hands every record to fn.
func (s *Neo4jStore) collect(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]interface{}, fn func(*neo4j.Record) error) error {
	if !s.Enabled() {
		return s.unavailable()
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDatabaseOperation, err)
	}
	for result.Next(ctx) {
		if fn == nil {
			continue
		}
		if err := fn(result.Record()); err != nil {
			return err
		}
	}
	if err := result.Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrDatabaseOperation, err)
	}
	return nil
}

// CountNodes returns the total number of nodes in the database.
func (s *Neo4jStore) CountNodes(ctx context.Context) (int64, error) {
	var count int64
	err := s.collect(ctx, neo4j.AccessModeRead, `MATCH (n) RETURN count(n) AS count`, nil, func(record *neo4j.Record) error {
		count = int64FromRecord(record, "count")
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	return count, nil
}

// InitSample inserts the apple -> fruit smoke-test pair.
func (s *Neo4jStore) InitSample(ctx context.Context) error {
	query := `
		MERGE (w1:Word {lemma: 'apple'})
		MERGE (w2:Word {lemma: 'fruit'})
		MERGE (w1)-[:RELATED_TO]->(w2)
		RETURN w1, w2
	`
	if err := s.collect(ctx, neo4j.AccessModeWrite, query, nil, nil); err != nil {
		return fmt.Errorf("failed to create sample data: %w", err)
	}
	return nil
}
