package graph

// MaxVisualizationNodes caps a neighborhood, main word included.
const MaxVisualizationNodes = 30

// Node weights used by the force-directed view.
const (
	ValMainWord    = 25
	ValWord        = 18
	ValSense       = 14
	ValLevel       = 12
	ValExample     = 10
	ValTopic       = 10
	ValCollocation = 8
	ValPlaceholder = 20
)

// Visualization groups.
const (
	GroupWord    = "Word"
	GroupSense   = "Sense"
	GroupExample = "Example"
	GroupTopic   = "Topic"
)

// VisNode is a shaped node. Its ID is the display key the front end merges
// on, not the snapshot node id.
type VisNode struct {
	ID         string      `json:"id"`
	Group      string      `json:"group"`
	Val        int         `json:"val"`
	Label      string      `json:"label,omitempty"`
	Properties *Properties `json:"properties,omitempty"`
}

// VisLink connects two shaped nodes by their display ids.
type VisLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// Visualization is the payload consumed by the word graph view.
type Visualization struct {
	Nodes []VisNode `json:"nodes"`
	Links []VisLink `json:"links"`
}

// Placeholder is the single-node graph shown when no source knows the word.
func Placeholder(word string) Visualization {
	return Visualization{
		Nodes: []VisNode{{ID: word, Group: GroupWord, Val: ValPlaceholder}},
		Links: []VisLink{},
	}
}

// GraphForWord resolves word and builds its neighborhood.
func (ix *Index) GraphForWord(word string) (Visualization, bool) {
	id, _, ok := ix.Resolve(word)
	if !ok {
		return Visualization{}, false
	}
	return ix.Neighborhood(id), true
}

// Neighborhood builds the depth-1 subgraph around a word node: the word
// itself, then outgoing neighbors, then incoming Word neighbors, up to
// MaxVisualizationNodes nodes. Nodes are deduplicated by snapshot id.
func (ix *Index) Neighborhood(wordID string) Visualization {
	vis := Visualization{Nodes: []VisNode{}, Links: []VisLink{}}

	wordNode, ok := ix.nodeIndex[wordID]
	if !ok {
		return vis
	}

	mainWord := wordNode.Label()
	props := wordNode.Properties
	vis.Nodes = append(vis.Nodes, VisNode{
		ID:         mainWord,
		Group:      GroupWord,
		Val:        ValMainWord,
		Label:      mainWord,
		Properties: &props,
	})
	added := map[string]bool{wordID: true}

	for _, edge := range ix.edgesBySource[wordID] {
		target, ok := ix.nodeIndex[edge.Target]
		if !ok || added[edge.Target] {
			continue
		}
		shaped, ok := Shape(target)
		if !ok || len(vis.Nodes) >= MaxVisualizationNodes {
			continue
		}
		vis.Nodes = append(vis.Nodes, shaped)
		added[edge.Target] = true
		vis.Links = append(vis.Links, VisLink{Source: mainWord, Target: shaped.ID, Type: edge.Type})
	}

	// Incoming edges only matter for symmetric word-to-word relations
	for _, edge := range ix.edgesByTarget[wordID] {
		if added[edge.Source] {
			continue
		}
		source, ok := ix.nodeIndex[edge.Source]
		if !ok || source.Type != NodeWord || len(vis.Nodes) >= MaxVisualizationNodes {
			continue
		}
		shaped, ok := Shape(source)
		if !ok {
			continue
		}
		vis.Nodes = append(vis.Nodes, shaped)
		added[edge.Source] = true
		vis.Links = append(vis.Links, VisLink{Source: shaped.ID, Target: mainWord, Type: edge.Type})
	}

	neighborhoodSize.Observe(float64(len(vis.Nodes)))
	return vis
}
