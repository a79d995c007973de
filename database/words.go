package database

import (
	"context"
	"fmt"
	"strings"

	"vocab-graph/web/types"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// MaxNeighbors bounds WordNeighborhood so the search view stays at 30 nodes
// including the searched word.
const MaxNeighbors = 29

// Neighbor is a node adjacent to a word in the Neo4j graph.
type Neighbor struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Name  string `json:"name"`
}

// ImportWord merges one CSV row into the graph: the Word, a Sense keyed by
// word and Korean definition, an optional Example, and synonym links.
func (s *Neo4jStore) ImportWord(ctx context.Context, row types.WordRow) error {
	query := `
		MERGE (w:Word {lemma: $word})
		ON CREATE SET w.pos = $pos, w.cefr = $cefr
		ON MATCH SET w.pos = $pos, w.cefr = $cefr

		MERGE (s:Sense {id: $word + '_sense_' + $koDef})
		SET s.definition_ko = $koDef, s.definition_en = $enDef

		MERGE (w)-[:HAS_SENSE]->(s)

		WITH w, s
		WHERE $example <> ''
		MERGE (e:Example {text: $example})
		MERGE (s)-[:HAS_EXAMPLE]->(e)
	`
	err := s.collect(ctx, neo4j.AccessModeWrite, query, map[string]interface{}{
		"word":    row.Word,
		"pos":     row.POS,
		"cefr":    row.CEFR,
		"koDef":   row.KoDef,
		"enDef":   row.EnDef,
		"example": row.Example,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to import word %q: %w", row.Word, err)
	}

	synonymQuery := `
		MATCH (w:Word {lemma: $word})
		MERGE (t:Word {lemma: $syn})
		MERGE (w)-[:RELATED_TO {type: 'synonym'}]->(t)
	`
	for _, syn := range row.Synonyms {
		err := s.collect(ctx, neo4j.AccessModeWrite, synonymQuery, map[string]interface{}{"word": row.Word, "syn": syn}, nil)
		if err != nil {
			return fmt.Errorf("failed to link synonym %q of %q: %w", syn, row.Word, err)
		}
	}
	return nil
}

// WordNeighborhood returns the depth-1 neighbors of the word with the given
// lemma. found is false when the word does not exist.
func (s *Neo4jStore) WordNeighborhood(ctx context.Context, word string) (found bool, neighbors []Neighbor, err error) {
	err = s.collect(ctx, neo4j.AccessModeRead, `MATCH (w:Word {lemma: $word}) RETURN count(w) AS count`,
		map[string]interface{}{"word": word},
		func(record *neo4j.Record) error {
			found = int64FromRecord(record, "count") > 0
			return nil
		})
	if err != nil {
		return false, nil, fmt.Errorf("failed to look up word: %w", err)
	}
	if !found {
		return false, nil, nil
	}

	query := `
		MATCH (w:Word {lemma: $word})--(n)
		RETURN DISTINCT elementId(n) AS id,
			head(labels(n)) AS label,
			coalesce(n.lemma, n.definition_en, n.text, n.name, n.id) AS name
		LIMIT $limit
	`
	neighbors = []Neighbor{}
	err = s.collect(ctx, neo4j.AccessModeRead, query, map[string]interface{}{"word": word, "limit": MaxNeighbors},
		func(record *neo4j.Record) error {
			neighbors = append(neighbors, Neighbor{
				ID:    stringFromRecord(record, "id"),
				Label: stringFromRecord(record, "label"),
				Name:  strings.TrimSpace(stringFromRecord(record, "name")),
			})
			return nil
		})
	if err != nil {
		return true, nil, fmt.Errorf("failed to load neighborhood: %w", err)
	}

	s.logger.Debug("Loaded neighborhood from Neo4j",
		zap.String("word", word),
		zap.Int("neighbors", len(neighbors)))
	return true, neighbors, nil
}
