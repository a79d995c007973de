// Package graph holds the in-memory vocabulary graph index: a read-only view
// over a snapshot of words, senses, examples and topic nodes that answers
// word-neighborhood and synonym/antonym queries without touching Neo4j.
package graph

// NodeType identifies the kind of vocabulary node.
type NodeType string

const (
	NodeWord        NodeType = "Word"
	NodeSynset      NodeType = "Synset"
	NodeExample     NodeType = "Example"
	NodeCEFRLevel   NodeType = "CEFRLevel"
	NodeCurriculum  NodeType = "Curriculum"
	NodeTopic       NodeType = "Topic"
	NodeDomain      NodeType = "Domain"
	NodeCollocation NodeType = "Collocation"
)

// Relation types used by the snapshot and the traversal logic.
const (
	RelHasSense   = "HAS_SENSE"
	RelHasExample = "HAS_EXAMPLE"
	RelHasLevel   = "HAS_LEVEL"
	RelSynonymOf  = "SYNONYM_OF"
	RelAntonymOf  = "ANTONYM_OF"
	RelRelatedTo  = "RELATED_TO"
)

// WordIDPrefix prefixes every word node id: "word:" + lowercased lemma.
const WordIDPrefix = "word:"

// Properties carries the per-type node attributes. Each node type fills only
// the fields relevant to it; everything else stays at its zero value.
//
//	Word:        Text, Display, Stem, POS, IPA, CEFR, FreqRank (+ MeaningKo/DefinitionEn when denormalized)
//	Synset:      MeaningKo, DefinitionEn, POS
//	Example:     Sentence
//	CEFRLevel:   Code
//	Curriculum:  Code
//	Topic/Domain: Name
//	Collocation: Pattern
type Properties struct {
	Text         string  `json:"text,omitempty"`
	Display      string  `json:"display,omitempty"`
	Stem         string  `json:"stem,omitempty"`
	POS          string  `json:"pos,omitempty"`
	IPA          string  `json:"ipa,omitempty"`
	CEFR         string  `json:"cefr,omitempty"`
	FreqRank     float64 `json:"freq_rank,omitempty"`
	MeaningKo    string  `json:"meaning_ko,omitempty"`
	DefinitionEn string  `json:"definition_en,omitempty"`
	Sentence     string  `json:"sentence,omitempty"`
	Name         string  `json:"name,omitempty"`
	Pattern      string  `json:"pattern,omitempty"`
	Code         string  `json:"code,omitempty"`
}

// Definition returns the Korean meaning, falling back to the English definition.
func (p Properties) Definition() string {
	if p.MeaningKo != "" {
		return p.MeaningKo
	}
	return p.DefinitionEn
}

// Node is a single vertex of the snapshot.
type Node struct {
	ID         string     `json:"id"`
	Type       NodeType   `json:"type"`
	Properties Properties `json:"properties"`
}

// Label is the node's display name: display, then text, then the raw id.
func (n *Node) Label() string {
	if n.Properties.Display != "" {
		return n.Properties.Display
	}
	if n.Properties.Text != "" {
		return n.Properties.Text
	}
	return n.ID
}

// Edge is a directed relationship. SYNONYM_OF and ANTONYM_OF are treated as
// symmetric by the traversal code, which consults both directions.
type Edge struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Stats aggregates node and edge counts of a snapshot.
type Stats struct {
	NodesCreated int            `json:"nodesCreated"`
	EdgesCreated int            `json:"edgesCreated"`
	ByNodeType   map[string]int `json:"byNodeType"`
	ByEdgeType   map[string]int `json:"byEdgeType"`
}

// Metadata is the header block of a snapshot dump.
type Metadata struct {
	Stats *Stats `json:"stats,omitempty"`
}

// Snapshot is the unit of (re)load: the whole dataset at once.
type Snapshot struct {
	Metadata Metadata `json:"metadata"`
	Stats    *Stats   `json:"stats,omitempty"`
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
}

// ComputeStats counts nodes and edges by type.
func ComputeStats(nodes []Node, edges []Edge) Stats {
	stats := Stats{
		NodesCreated: len(nodes),
		EdgesCreated: len(edges),
		ByNodeType:   make(map[string]int),
		ByEdgeType:   make(map[string]int),
	}
	for _, n := range nodes {
		stats.ByNodeType[string(n.Type)]++
	}
	for _, e := range edges {
		stats.ByEdgeType[e.Type]++
	}
	return stats
}

// WordID builds the canonical node id for a lemma.
func WordID(word string) string {
	return WordIDPrefix + normalize(word)
}
