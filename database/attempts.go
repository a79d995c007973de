package database

import (
	"context"
	"fmt"
	"time"

	apperrors "vocab-graph/errors"
	"vocab-graph/web/types"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const recentWordsLimit = 10

// RecordAttempt appends an answered question to the log, filling in the id
// and timestamp when they are unset. Disabled stores drop the attempt.
func (s *PostgresStore) RecordAttempt(ctx context.Context, attempt types.Attempt) (types.Attempt, error) {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}
	if !s.Enabled() {
		return attempt, nil
	}

	options := attempt.Options
	if options == nil {
		options = []string{}
	}

	query := `
		INSERT INTO quiz_attempts (id, learner_id, word_id, quiz_type, options, is_correct, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.DB.ExecContext(ctx, query,
		attempt.ID, attempt.LearnerID, attempt.WordID, attempt.QuizType,
		pq.Array(options), attempt.IsCorrect, attempt.CreatedAt)
	if err != nil {
		return attempt, fmt.Errorf("%w: failed to record attempt: %v", apperrors.ErrDatabaseOperation, err)
	}

	s.logger.Debug("Recorded quiz attempt",
		zap.String("learner", attempt.LearnerID),
		zap.String("word", attempt.WordID),
		zap.Bool("correct", attempt.IsCorrect))
	return attempt, nil
}

// LearnerProgress summarizes the learner's attempts: totals, accuracy and the
// most recently attempted words.
func (s *PostgresStore) LearnerProgress(ctx context.Context, learnerID string) (types.LearnerProgress, error) {
	progress := types.LearnerProgress{LearnerID: learnerID, RecentWords: []string{}}
	if !s.Enabled() {
		return progress, apperrors.WrapError(apperrors.ErrServiceUnavailable, "attempt log not configured")
	}

	totalsQuery := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM quiz_attempts
		WHERE learner_id = $1
	`
	if err := s.DB.QueryRowContext(ctx, totalsQuery, learnerID).Scan(&progress.Total, &progress.Correct); err != nil {
		return progress, fmt.Errorf("%w: failed to count attempts: %v", apperrors.ErrDatabaseOperation, err)
	}
	progress.Accuracy = accuracy(progress.Correct, progress.Total)

	var recent []string
	recentQuery := `
		SELECT COALESCE(array_agg(word_id ORDER BY last_seen DESC), '{}')
		FROM (
			SELECT word_id, MAX(created_at) AS last_seen
			FROM quiz_attempts
			WHERE learner_id = $1
			GROUP BY word_id
			ORDER BY last_seen DESC
			LIMIT $2
		) recent
	`
	if err := s.DB.QueryRowContext(ctx, recentQuery, learnerID, recentWordsLimit).Scan(pq.Array(&recent)); err != nil {
		return progress, fmt.Errorf("%w: failed to load recent words: %v", apperrors.ErrDatabaseOperation, err)
	}
	if recent != nil {
		progress.RecentWords = recent
	}
	return progress, nil
}

func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
