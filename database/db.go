package database

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "vocab-graph/errors"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// PostgresStore is the quiz attempt log. A store without a DSN is disabled and
// its writes are no-ops.
type PostgresStore struct {
	DB     *sql.DB
	logger *zap.Logger
}

func NewPostgresStore(ctx context.Context, connStr string, logger *zap.Logger) (*PostgresStore, error) {
	store := &PostgresStore{logger: logger}
	if connStr == "" {
		logger.Info("DATABASE_URL not configured, attempt log disabled")
		return store, nil
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("Successfully connected to the database")
	store.DB = db
	return store, nil
}

// Enabled reports whether the store has a live connection.
func (s *PostgresStore) Enabled() bool {
	return s != nil && s.DB != nil
}

func (s *PostgresStore) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.DB.Close()
}

// EnsureSchema creates the required tables if they do not already exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quiz_attempts (
            id UUID PRIMARY KEY,
            learner_id TEXT NOT NULL,
            word_id TEXT NOT NULL,
            quiz_type TEXT NOT NULL DEFAULT '',
            options TEXT[] DEFAULT '{}'::TEXT[],
            is_correct BOOLEAN NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_attempts_learner_created_at ON quiz_attempts(learner_id, created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: failed to execute schema statement: %v", apperrors.ErrDatabaseOperation, err)
		}
	}
	return nil
}
