package quiz

import (
	"context"
	"fmt"

	"vocab-graph/web/types"
)

// Store is the learner graph the targeted quiz reads from.
type Store interface {
	QuizTarget(ctx context.Context, learnerID string) (word, definition string, err error)
	Distractors(ctx context.Context, word string, n int) ([]string, error)
}

// FromStore builds a definition question for the word the learner should
// review next. Errors from the store, including ErrNotFound when the graph
// has no words, are returned as is.
func (g *Generator) FromStore(ctx context.Context, store Store, learnerID string) (types.QuizItem, error) {
	word, definition, err := store.QuizTarget(ctx, learnerID)
	if err != nil {
		return types.QuizItem{}, err
	}

	pool, err := store.Distractors(ctx, word, distractorCount)
	if err != nil {
		return types.QuizItem{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	return types.QuizItem{
		Type:     types.QuizDefinition,
		Question: fmt.Sprintf("What is the definition of \"%s\"?", word),
		Options:  g.options(definition, g.distractors(pool, definition, nil), "Alternative meaning"),
		Answer:   definition,
		WordID:   word,
	}, nil
}
