package graph

import "strings"

// Index is an immutable, fully indexed snapshot. Build it once with NewIndex
// or Load and share the pointer; no method mutates it.
type Index struct {
	nodes         []Node
	nodeIndex     map[string]*Node
	edgesBySource map[string][]Edge
	edgesByTarget map[string][]Edge
	words         []*Node
	stats         Stats
}

// NewIndex builds the lookup tables for a snapshot. Later nodes with a
// duplicate id replace earlier ones. Edges whose endpoints do not exist are
// still indexed; traversal skips them when they fail to resolve.
func NewIndex(snap *Snapshot) *Index {
	ix := &Index{
		nodes:         snap.Nodes,
		nodeIndex:     make(map[string]*Node, len(snap.Nodes)),
		edgesBySource: make(map[string][]Edge),
		edgesByTarget: make(map[string][]Edge),
	}

	// Word scans walk dataset order over every Word record, including ones
	// whose id a later duplicate overwrote in nodeIndex.
	for i := range ix.nodes {
		n := &ix.nodes[i]
		ix.nodeIndex[n.ID] = n
		if n.Type == NodeWord {
			ix.words = append(ix.words, n)
		}
	}

	for _, e := range snap.Edges {
		ix.edgesBySource[e.Source] = append(ix.edgesBySource[e.Source], e)
		ix.edgesByTarget[e.Target] = append(ix.edgesByTarget[e.Target], e)
	}

	switch {
	case snap.Metadata.Stats != nil:
		ix.stats = *snap.Metadata.Stats
	case snap.Stats != nil:
		ix.stats = *snap.Stats
	default:
		ix.stats = ComputeStats(snap.Nodes, snap.Edges)
	}

	return ix
}

// Node returns the node with the given id.
func (ix *Index) Node(id string) (*Node, bool) {
	n, ok := ix.nodeIndex[id]
	return n, ok
}

// Words returns the Word nodes in dataset order.
func (ix *Index) Words() []*Node {
	return ix.words
}

// Outgoing returns edges whose source is id, in dataset order.
func (ix *Index) Outgoing(id string) []Edge {
	return ix.edgesBySource[id]
}

// Incoming returns edges whose target is id, in dataset order.
func (ix *Index) Incoming(id string) []Edge {
	return ix.edgesByTarget[id]
}

// Stats returns the aggregate counts recorded for the snapshot.
func (ix *Index) Stats() Stats {
	return ix.stats
}

// WordProperties looks up a word by its canonical id only.
func (ix *Index) WordProperties(word string) (Properties, bool) {
	n, ok := ix.nodeIndex[WordID(word)]
	if !ok {
		return Properties{}, false
	}
	return n.Properties, true
}

// ExamplesForWord collects example sentences attached to the word directly
// or through one of its senses, deduplicated in discovery order.
func (ix *Index) ExamplesForWord(word string) []string {
	wordID := WordID(word)
	if _, ok := ix.nodeIndex[wordID]; !ok {
		return nil
	}

	seen := make(map[string]bool)
	var sentences []string
	collect := func(id string) {
		n, ok := ix.nodeIndex[id]
		if !ok || n.Type != NodeExample || n.Properties.Sentence == "" {
			return
		}
		if !seen[n.Properties.Sentence] {
			seen[n.Properties.Sentence] = true
			sentences = append(sentences, n.Properties.Sentence)
		}
	}

	for _, e := range ix.edgesBySource[wordID] {
		target, ok := ix.nodeIndex[e.Target]
		if !ok {
			continue
		}
		switch target.Type {
		case NodeExample:
			collect(target.ID)
		case NodeSynset:
			for _, se := range ix.edgesBySource[target.ID] {
				collect(se.Target)
			}
		}
	}
	return sentences
}

func normalize(word string) string {
	return strings.ToLower(word)
}
