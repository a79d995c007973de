package graph

import "fmt"

const (
	senseLabelRunes   = 50
	exampleLabelRunes = 60
)

// Shape projects a snapshot node onto a visualization node. It reports false
// for node types the view does not know how to draw.
//
// Sense and example ids are truncated text, so two nodes sharing a prefix
// collapse into one visualization node.
func Shape(n *Node) (VisNode, bool) {
	p := n.Properties
	props := &p

	switch n.Type {
	case NodeWord:
		return VisNode{ID: n.Label(), Group: GroupWord, Val: ValWord, Label: wordLabel(p), Properties: props}, true
	case NodeSynset:
		def := truncate(p.Definition(), senseLabelRunes)
		return VisNode{ID: orDefault(def, "Definition"), Group: GroupSense, Val: ValSense, Label: def, Properties: props}, true
	case NodeExample:
		sentence := truncate(p.Sentence, exampleLabelRunes)
		return VisNode{ID: orDefault(sentence, "Example"), Group: GroupExample, Val: ValExample, Label: sentence, Properties: props}, true
	case NodeCEFRLevel:
		return VisNode{ID: "Level: " + p.Code, Group: GroupTopic, Val: ValLevel, Label: "CEFR " + p.Code, Properties: props}, true
	case NodeCurriculum:
		return VisNode{ID: fmt.Sprintf("교육과정: %s", p.Code), Group: GroupTopic, Val: ValLevel, Label: p.Code, Properties: props}, true
	case NodeTopic:
		return VisNode{ID: "Topic: " + p.Name, Group: GroupTopic, Val: ValTopic, Label: p.Name, Properties: props}, true
	case NodeDomain:
		return VisNode{ID: "Domain: " + p.Name, Group: GroupTopic, Val: ValTopic, Label: p.Name, Properties: props}, true
	case NodeCollocation:
		return VisNode{ID: orDefault(p.Pattern, "Collocation"), Group: GroupExample, Val: ValCollocation, Label: p.Pattern, Properties: props}, true
	default:
		return VisNode{}, false
	}
}

func wordLabel(p Properties) string {
	if p.Display != "" {
		return p.Display
	}
	return p.Text
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// truncate keeps the first n characters (runes, not bytes).
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
