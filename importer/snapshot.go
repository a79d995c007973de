package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vocab-graph/graph"
	"vocab-graph/web/types"
)

type snapshotBuilder struct {
	nodes     []graph.Node
	nodeIndex map[string]int
	edges     []graph.Edge
	edgeSeen  map[string]bool
	senses    map[string]int
	examples  map[string]int
}

// BuildSnapshot compiles CSV rows into a snapshot the in-memory index can
// load. Repeated words merge into one Word node with one Synset per row;
// synonyms missing from the CSV get a bare Word node so links never dangle.
func BuildSnapshot(rows []types.WordRow) graph.Snapshot {
	b := &snapshotBuilder{
		nodeIndex: make(map[string]int),
		edgeSeen:  make(map[string]bool),
		senses:    make(map[string]int),
		examples:  make(map[string]int),
	}

	for _, row := range rows {
		if row.Word == "" {
			continue
		}
		b.addRow(row)
	}

	stats := graph.ComputeStats(b.nodes, b.edges)
	return graph.Snapshot{
		Metadata: graph.Metadata{Stats: &stats},
		Nodes:    b.nodes,
		Edges:    b.edges,
	}
}

func (b *snapshotBuilder) addRow(row types.WordRow) {
	lemma := strings.ToLower(row.Word)
	wordID := graph.WordID(row.Word)

	word := b.upsertWord(wordID, lemma, row.Word)
	word.Properties.POS = row.POS
	word.Properties.CEFR = row.CEFR
	if word.Properties.MeaningKo == "" {
		word.Properties.MeaningKo = row.KoDef
	}
	if word.Properties.DefinitionEn == "" {
		word.Properties.DefinitionEn = row.EnDef
	}

	b.senses[lemma]++
	senseID := fmt.Sprintf("sense:%s:%d", lemma, b.senses[lemma])
	b.addNode(graph.Node{
		ID:   senseID,
		Type: graph.NodeSynset,
		Properties: graph.Properties{
			MeaningKo:    row.KoDef,
			DefinitionEn: row.EnDef,
			POS:          row.POS,
		},
	})
	b.addEdge(wordID, senseID, graph.RelHasSense)

	if row.Example != "" {
		b.examples[lemma]++
		exampleID := fmt.Sprintf("example:%s:%d", lemma, b.examples[lemma])
		b.addNode(graph.Node{
			ID:         exampleID,
			Type:       graph.NodeExample,
			Properties: graph.Properties{Sentence: row.Example},
		})
		b.addEdge(senseID, exampleID, graph.RelHasExample)
	}

	if code := strings.ToUpper(strings.TrimSpace(row.CEFR)); code != "" {
		levelID := "cefr:" + code
		if _, ok := b.nodeIndex[levelID]; !ok {
			b.addNode(graph.Node{
				ID:         levelID,
				Type:       graph.NodeCEFRLevel,
				Properties: graph.Properties{Code: code},
			})
		}
		b.addEdge(wordID, levelID, graph.RelHasLevel)
	}

	for _, syn := range row.Synonyms {
		synID := graph.WordID(syn)
		if synID == wordID {
			continue
		}
		b.upsertWord(synID, strings.ToLower(syn), syn)
		b.addEdge(wordID, synID, graph.RelSynonymOf)
	}
}

// upsertWord returns the Word node with id, creating it when absent.
func (b *snapshotBuilder) upsertWord(id, lemma, display string) *graph.Node {
	if i, ok := b.nodeIndex[id]; ok {
		return &b.nodes[i]
	}
	b.addNode(graph.Node{
		ID:   id,
		Type: graph.NodeWord,
		Properties: graph.Properties{
			Text:    lemma,
			Display: display,
		},
	})
	return &b.nodes[b.nodeIndex[id]]
}

func (b *snapshotBuilder) addNode(n graph.Node) {
	b.nodeIndex[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
}

func (b *snapshotBuilder) addEdge(source, target, typ string) {
	key := source + "|" + typ + "|" + target
	if b.edgeSeen[key] {
		return
	}
	b.edgeSeen[key] = true
	b.edges = append(b.edges, graph.Edge{Source: source, Target: target, Type: typ})
}

// WriteSnapshot writes snap as indented JSON, creating parent directories.
func WriteSnapshot(path string, snap graph.Snapshot) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
