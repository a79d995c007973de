package services

import (
	"context"
	"time"

	"vocab-graph/graph"
	"vocab-graph/quiz"
	"vocab-graph/web/types"

	"go.uber.org/zap"
)

// AnonymousLearner is recorded for quiz submissions not tied to a learner.
const AnonymousLearner = "anonymous"

// IndexProvider hands out the loaded snapshot index.
type IndexProvider interface {
	Index() (*graph.Index, error)
}

// LearnerQuizStore is the Neo4j side of learner quizzes.
type LearnerQuizStore interface {
	quiz.Store
	RecordQuizResult(ctx context.Context, learnerID, word string, correct bool) error
}

// AttemptLog persists answered questions.
type AttemptLog interface {
	Enabled() bool
	RecordAttempt(ctx context.Context, attempt types.Attempt) (types.Attempt, error)
}

type QuizService struct {
	index     IndexProvider
	store     LearnerQuizStore
	attempts  AttemptLog
	generator *quiz.Generator
	logger    *zap.Logger
}

func NewQuizService(index IndexProvider, store LearnerQuizStore, attempts AttemptLog, generator *quiz.Generator, logger *zap.Logger) *QuizService {
	return &QuizService{
		index:     index,
		store:     store,
		attempts:  attempts,
		generator: generator,
		logger:    logger,
	}
}

// ForWord builds a question of the given kind from the snapshot index.
func (qs *QuizService) ForWord(word, kind string) (types.QuizItem, error) {
	ix, err := qs.index.Index()
	if err != nil {
		return types.QuizItem{}, err
	}
	return qs.generator.Generate(ix, word, kind)
}

// ForLearner builds the learner's next review question from Neo4j.
func (qs *QuizService) ForLearner(ctx context.Context, learnerID string) (types.QuizItem, error) {
	return qs.generator.FromStore(ctx, qs.store, learnerID)
}

// SubmitForLearner updates the learner's mastery in Neo4j and logs the
// attempt. A failing attempt log does not fail the submission.
func (qs *QuizService) SubmitForLearner(ctx context.Context, learnerID string, sub types.QuizSubmission) error {
	correct := sub.IsCorrect != nil && *sub.IsCorrect
	if err := qs.store.RecordQuizResult(ctx, learnerID, sub.WordID, correct); err != nil {
		return err
	}
	qs.logAttempt(ctx, learnerID, sub.WordID, correct)
	return nil
}

// Submit records an answer to an index quiz.
func (qs *QuizService) Submit(ctx context.Context, sub types.QuizSubmission) types.Attempt {
	correct := sub.IsCorrect != nil && *sub.IsCorrect
	qs.logger.Info("Quiz result",
		zap.String("word", sub.WordID),
		zap.Bool("correct", correct))
	return qs.logAttempt(ctx, AnonymousLearner, sub.WordID, correct)
}

func (qs *QuizService) logAttempt(ctx context.Context, learnerID, wordID string, correct bool) types.Attempt {
	attempt := types.Attempt{
		LearnerID: learnerID,
		WordID:    wordID,
		IsCorrect: correct,
		CreatedAt: time.Now().UTC(),
	}
	if qs.attempts == nil || !qs.attempts.Enabled() {
		return attempt
	}
	saved, err := qs.attempts.RecordAttempt(ctx, attempt)
	if err != nil {
		qs.logger.Warn("Failed to log quiz attempt",
			zap.String("learner", learnerID),
			zap.String("word", wordID),
			zap.Error(err))
		return attempt
	}
	return saved
}
