package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Learner mastery relationship types.
const (
	RelKnows    = "KNOWS"
	RelLearning = "LEARNING"
	RelForgot   = "FORGOT"
)

var masteryRelations = []string{RelKnows, RelLearning, RelForgot}

// InitLearners bootstraps the three demo learners. Idempotent.
func (s *Neo4jStore) InitLearners(ctx context.Context) error {
	query := `
		MERGE (l1:Learner {id: 'learner_novice', name: 'Novice Kim', level: 'A1'})
		MERGE (l2:Learner {id: 'learner_inter', name: 'Intermediate Lee', level: 'B1'})
		MERGE (l3:Learner {id: 'learner_advanced', name: 'Advanced Park', level: 'C1'})
	`
	if err := s.collect(ctx, neo4j.AccessModeWrite, query, nil, nil); err != nil {
		return fmt.Errorf("failed to init learners: %w", err)
	}
	s.logger.Info("Learners initialized")
	return nil
}

// SimulateHistory links up to count random words to the learner with random
// mastery relationships and returns how many links were written.
func (s *Neo4jStore) SimulateHistory(ctx context.Context, learnerID string, count int, rng *rand.Rand) (int, error) {
	var words []string
	err := s.collect(ctx, neo4j.AccessModeRead, `MATCH (w:Word) RETURN w.lemma AS lemma LIMIT $limit`,
		map[string]interface{}{"limit": count * 3},
		func(record *neo4j.Record) error {
			if lemma := stringFromRecord(record, "lemma"); lemma != "" {
				words = append(words, lemma)
			}
			return nil
		})
	if err != nil {
		return 0, fmt.Errorf("failed to list words: %w", err)
	}

	created := 0
	for _, word := range words {
		if created >= count {
			break
		}
		// Randomly skip to scatter data
		if rng.Float64() > 0.3 {
			continue
		}

		relation := masteryRelations[rng.Intn(len(masteryRelations))]
		// Relationship types cannot be parameters; relation comes from a fixed list
		query := fmt.Sprintf(`
			MATCH (l:Learner {id: $learnerId})
			MATCH (w:Word {lemma: $word})
			MERGE (l)-[r:%s]->(w)
			SET r.strength = $strength, r.correct_rate = $correctRate, r.last_seen = $lastSeen
		`, relation)

		err := s.collect(ctx, neo4j.AccessModeWrite, query, map[string]interface{}{
			"learnerId":   learnerID,
			"word":        word,
			"strength":    rng.Float64(),
			"correctRate": rng.Float64(),
			"lastSeen":    time.Now().UTC().Format(time.RFC3339),
		}, nil)
		if err != nil {
			return created, fmt.Errorf("failed to link %q: %w", word, err)
		}
		created++
	}

	s.logger.Debug("Simulated learner history",
		zap.String("learner", learnerID),
		zap.Int("linked", created),
		zap.Int("candidates", len(words)))
	return created, nil
}

// RecordQuizResult updates the learner's LEARNING relationship for word,
// creating it when absent, and recomputes strength as correct/total.
func (s *Neo4jStore) RecordQuizResult(ctx context.Context, learnerID, word string, correct bool) error {
	inc := 0
	if correct {
		inc = 1
	}
	query := `
		MATCH (l:Learner {id: $learnerId})
		MATCH (w:Word {lemma: $wordId})
		MERGE (l)-[r:LEARNING]->(w)
		SET r.last_seen = $now
		SET r.correct_count = coalesce(r.correct_count, 0) + $inc
		SET r.total_count = coalesce(r.total_count, 0) + 1
		SET r.strength = (toFloat(r.correct_count) / r.total_count)
	`
	err := s.collect(ctx, neo4j.AccessModeWrite, query, map[string]interface{}{
		"learnerId": learnerID,
		"wordId":    word,
		"now":       time.Now().UTC().Format(time.RFC3339),
		"inc":       inc,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to record quiz result: %w", err)
	}
	return nil
}
