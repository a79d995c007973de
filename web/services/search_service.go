package services

import (
	"context"
	"strings"

	"vocab-graph/database"
	apperrors "vocab-graph/errors"
	"vocab-graph/graph"

	"go.uber.org/zap"
)

// Where a search result came from.
const (
	SourceIndex       = "index"
	SourceNeo4j       = "neo4j"
	SourcePlaceholder = "placeholder"
)

// GraphSource is the in-memory index side of search.
type GraphSource interface {
	GraphForWord(word string) (graph.Visualization, error)
}

// NeighborhoodStore is the Neo4j side of search.
type NeighborhoodStore interface {
	Enabled() bool
	WordNeighborhood(ctx context.Context, word string) (bool, []database.Neighbor, error)
}

type SearchService struct {
	source GraphSource
	store  NeighborhoodStore
	logger *zap.Logger
}

func NewSearchService(source GraphSource, store NeighborhoodStore, logger *zap.Logger) *SearchService {
	return &SearchService{
		source: source,
		store:  store,
		logger: logger,
	}
}

// Search returns the word's neighborhood from the snapshot index, falling
// back to Neo4j and finally to a single placeholder node. It never fails.
func (s *SearchService) Search(ctx context.Context, word string) (graph.Visualization, string) {
	lookup := strings.ToLower(word)

	vis, err := s.source.GraphForWord(lookup)
	if err == nil && len(vis.Nodes) > 0 {
		return vis, SourceIndex
	}
	if err != nil && !apperrors.IsNotFound(err) {
		s.logger.Warn("Graph index unavailable for search", zap.String("word", word), zap.Error(err))
	}

	if s.store != nil && s.store.Enabled() {
		found, neighbors, err := s.store.WordNeighborhood(ctx, lookup)
		if err != nil {
			s.logger.Warn("Neo4j search failed", zap.String("word", word), zap.Error(err))
		} else if found {
			return ShapeNeighbors(lookup, neighbors), SourceNeo4j
		}
	}

	return graph.Placeholder(word), SourcePlaceholder
}

// ShapeNeighbors builds a visualization from Neo4j neighbors using the same
// ids, groups and weights as the snapshot index: Word nodes are keyed by
// their label.
func ShapeNeighbors(word string, neighbors []database.Neighbor) graph.Visualization {
	mainID := word
	vis := graph.Visualization{
		Nodes: []graph.VisNode{{ID: mainID, Group: graph.GroupWord, Val: graph.ValMainWord, Label: word}},
		Links: []graph.VisLink{},
	}

	seen := map[string]bool{mainID: true}
	for _, n := range neighbors {
		if len(vis.Nodes) >= graph.MaxVisualizationNodes {
			break
		}
		node := shapeNeighbor(n)
		if node.ID == "" || seen[node.ID] {
			continue
		}
		seen[node.ID] = true
		vis.Nodes = append(vis.Nodes, node)
		vis.Links = append(vis.Links, graph.VisLink{Source: mainID, Target: node.ID, Type: linkType(n.Label)})
	}
	return vis
}

func shapeNeighbor(n database.Neighbor) graph.VisNode {
	switch n.Label {
	case "Word":
		return graph.VisNode{ID: n.Name, Group: graph.GroupWord, Val: graph.ValWord, Label: n.Name}
	case "Sense":
		return graph.VisNode{ID: n.ID, Group: graph.GroupSense, Val: graph.ValSense, Label: truncate(n.Name, 50)}
	case "Example":
		return graph.VisNode{ID: n.ID, Group: graph.GroupExample, Val: graph.ValExample, Label: truncate(n.Name, 60)}
	default:
		return graph.VisNode{ID: n.ID, Group: graph.GroupTopic, Val: graph.ValTopic, Label: n.Name}
	}
}

func linkType(label string) string {
	switch label {
	case "Sense":
		return graph.RelHasSense
	case "Example":
		return graph.RelHasExample
	}
	return graph.RelRelatedTo
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
