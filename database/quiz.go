package database

import (
	"context"
	"fmt"

	apperrors "vocab-graph/errors"
	"vocab-graph/web/types"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// QuizTarget picks the word the learner saw least recently among LEARNING or
// FORGOT words, falling back to any word with a sense. Returns ErrNotFound
// when the graph has no words with senses.
func (s *Neo4jStore) QuizTarget(ctx context.Context, learnerID string) (word, definition string, err error) {
	targetQuery := `
		MATCH (l:Learner {id: $learnerId})-[r:LEARNING|FORGOT]->(w:Word)-[:HAS_SENSE]->(s:Sense)
		RETURN w.lemma AS word, s.definition_en AS def
		ORDER BY r.last_seen ASC
		LIMIT 1
	`
	randomQuery := `
		MATCH (w:Word)-[:HAS_SENSE]->(s:Sense)
		RETURN w.lemma AS word, s.definition_en AS def
		LIMIT 1
	`

	read := func(record *neo4j.Record) error {
		word = stringFromRecord(record, "word")
		definition = stringFromRecord(record, "def")
		return nil
	}

	if err := s.collect(ctx, neo4j.AccessModeRead, targetQuery, map[string]interface{}{"learnerId": learnerID}, read); err != nil {
		return "", "", fmt.Errorf("failed to pick quiz target: %w", err)
	}
	if word == "" {
		if err := s.collect(ctx, neo4j.AccessModeRead, randomQuery, nil, read); err != nil {
			return "", "", fmt.Errorf("failed to pick fallback quiz target: %w", err)
		}
	}
	if word == "" {
		return "", "", apperrors.WrapError(apperrors.ErrNotFound, "no quiz items available")
	}
	return word, definition, nil
}

// Distractors returns up to n random definitions of words other than word.
func (s *Neo4jStore) Distractors(ctx context.Context, word string, n int) ([]string, error) {
	query := `
		MATCH (w:Word)-[:HAS_SENSE]->(s:Sense)
		WHERE w.lemma <> $targetWord AND s.definition_en IS NOT NULL
		WITH s.definition_en AS def
		ORDER BY rand()
		LIMIT $limit
		RETURN def
	`
	defs := []string{}
	err := s.collect(ctx, neo4j.AccessModeRead, query, map[string]interface{}{"targetWord": word, "limit": n}, func(record *neo4j.Record) error {
		if def := stringFromRecord(record, "def"); def != "" {
			defs = append(defs, def)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch distractors: %w", err)
	}
	return defs, nil
}

// RecommendationContext finds a LEARNING word with strength below 0.5 along
// with its definition and related words, for the tutor.
func (s *Neo4jStore) RecommendationContext(ctx context.Context, learnerID string) (*types.TutorContext, error) {
	query := `
		MATCH (l:Learner {id: $learnerId})-[r:LEARNING]->(w:Word)
		WHERE r.strength < 0.5
		WITH w, r
		LIMIT 1
		MATCH (w)-[:HAS_SENSE]->(s:Sense)
		OPTIONAL MATCH (w)-[:RELATED_TO]->(related:Word)
		RETURN w.lemma AS word, s.definition_en AS def, collect(related.lemma) AS related_words
	`
	var tc *types.TutorContext
	err := s.collect(ctx, neo4j.AccessModeRead, query, map[string]interface{}{"learnerId": learnerID}, func(record *neo4j.Record) error {
		if tc != nil {
			return nil
		}
		tc = &types.TutorContext{
			Word:       stringFromRecord(record, "word"),
			Definition: stringFromRecord(record, "def"),
			Related:    stringsFromRecord(record, "related_words"),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendation context: %w", err)
	}
	if tc == nil || tc.Word == "" {
		return nil, apperrors.WrapError(apperrors.ErrNotFound, "no recommendations found")
	}
	return tc, nil
}
