// Package quiz builds multiple choice vocabulary questions from the in-memory
// graph index or, for learner-targeted quizzes, from the Neo4j store.
package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	apperrors "vocab-graph/errors"
	"vocab-graph/graph"
	"vocab-graph/web/types"
)

// ErrNotEnoughData means the dataset has too few usable words for a question.
var ErrNotEnoughData = errors.New("not enough vocabulary data")

const (
	// MinCandidates is the smallest pool that can fill every option slot.
	MinCandidates   = 4
	distractorCount = MinCandidates - 1
)

// Generator draws questions with its own random source. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand

	clozeMu sync.Mutex
	cloze   *clozeSet
}

// NewGenerator returns a generator seeded with seed. Equal seeds over the
// same index yield equal questions.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate dispatches on kind; an empty kind means a definition question.
func (g *Generator) Generate(ix *graph.Index, word, kind string) (types.QuizItem, error) {
	switch kind {
	case "", types.QuizDefinition:
		return g.Definition(ix, word)
	case types.QuizSynonym:
		return g.Synonym(ix, word)
	case types.QuizCloze:
		return g.Cloze(ix, word)
	}
	return types.QuizItem{}, apperrors.WrapErrorf(apperrors.ErrInvalidInput, "unknown quiz type %q", kind)
}

// Definition asks for the meaning of word. Candidates are Word nodes carrying
// a Korean meaning or an English definition; an unmatched or empty word picks
// a random candidate.
func (g *Generator) Definition(ix *graph.Index, word string) (types.QuizItem, error) {
	var candidates []*graph.Node
	for _, n := range ix.Words() {
		if n.Properties.Definition() != "" {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) < MinCandidates {
		return types.QuizItem{}, ErrNotEnoughData
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	target := g.pickTarget(candidates, word)
	display := displayName(target)
	answer := target.Properties.Definition()

	var pool []string
	for _, n := range candidates {
		if n.ID != target.ID {
			pool = append(pool, n.Properties.Definition())
		}
	}

	return types.QuizItem{
		Type:     types.QuizDefinition,
		Question: fmt.Sprintf("\"%s\"의 뜻은?", display),
		Options:  g.options(answer, g.distractors(pool, answer, nil), "Alternative meaning"),
		Answer:   answer,
		WordID:   display,
	}, nil
}

// Synonym asks which word is a synonym of word. Distractors are displays of
// words not related to it.
func (g *Generator) Synonym(ix *graph.Index, word string) (types.QuizItem, error) {
	words := ix.Words()
	var candidates []*graph.Node
	for _, n := range words {
		if len(ix.Synonyms(n.Properties.Text, graph.DefaultRelatedLimit)) > 0 {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 || len(words) < MinCandidates {
		return types.QuizItem{}, ErrNotEnoughData
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	target := g.pickTarget(candidates, word)
	display := displayName(target)
	synonyms := ix.Synonyms(target.Properties.Text, graph.DefaultRelatedLimit)
	answer := synonyms[g.rng.Intn(len(synonyms))]

	exclude := map[string]bool{strings.ToLower(display): true}
	for _, s := range synonyms {
		exclude[strings.ToLower(s)] = true
	}
	var pool []string
	for _, n := range words {
		pool = append(pool, displayName(n))
	}

	return types.QuizItem{
		Type:     types.QuizSynonym,
		Question: fmt.Sprintf("\"%s\"의 유의어는?", display),
		Options:  g.options(answer, g.distractors(pool, answer, exclude), "Alternative word"),
		Answer:   answer,
		WordID:   display,
	}, nil
}

// Cloze blanks the word out of one of its example sentences and asks for it.
// A requested word only has its own examples blanked; the random fallback
// draws from candidates computed once per index.
func (g *Generator) Cloze(ix *graph.Index, word string) (types.QuizItem, error) {
	words := ix.Words()
	if len(words) < MinCandidates {
		return types.QuizItem{}, ErrNotEnoughData
	}

	target, sentences := requestedCloze(ix, word)
	var set *clozeSet
	if target == nil {
		set = g.clozeCandidates(ix)
		if len(set.candidates) == 0 {
			return types.QuizItem{}, ErrNotEnoughData
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if target == nil {
		target = set.candidates[g.rng.Intn(len(set.candidates))]
		sentences = set.sentences[target.ID]
	}
	display := displayName(target)
	question := sentences[g.rng.Intn(len(sentences))]

	var pool []string
	for _, n := range words {
		pool = append(pool, displayName(n))
	}

	return types.QuizItem{
		Type:     types.QuizCloze,
		Question: question,
		Options:  g.options(display, g.distractors(pool, display, map[string]bool{strings.ToLower(display): true}), "Alternative word"),
		Answer:   display,
		WordID:   display,
	}, nil
}

// clozeSet holds the blanked example sentences of every word in one index.
type clozeSet struct {
	ix         *graph.Index
	candidates []*graph.Node
	sentences  map[string][]string
}

// clozeCandidates returns the cloze candidates of ix, blanking every word's
// examples only the first time a given index is seen.
func (g *Generator) clozeCandidates(ix *graph.Index) *clozeSet {
	g.clozeMu.Lock()
	defer g.clozeMu.Unlock()

	if g.cloze != nil && g.cloze.ix == ix {
		return g.cloze
	}
	set := &clozeSet{ix: ix, sentences: make(map[string][]string)}
	for _, n := range ix.Words() {
		if _, done := set.sentences[n.ID]; done {
			continue
		}
		if blanked := blankExamples(ix, n); len(blanked) > 0 {
			set.sentences[n.ID] = blanked
			set.candidates = append(set.candidates, n)
		}
	}
	g.cloze = set
	return set
}

// requestedCloze finds the first Word matching word, by text or display and
// case-insensitive, that has a blankable example.
func requestedCloze(ix *graph.Index, word string) (*graph.Node, []string) {
	if word == "" {
		return nil, nil
	}
	search := strings.ToLower(word)
	for _, n := range ix.Words() {
		if strings.ToLower(n.Properties.Text) != search && strings.ToLower(n.Properties.Display) != search {
			continue
		}
		if blanked := blankExamples(ix, n); len(blanked) > 0 {
			return n, blanked
		}
	}
	return nil, nil
}

func blankExamples(ix *graph.Index, n *graph.Node) []string {
	var sentences []string
	for _, example := range ix.ExamplesForWord(n.Properties.Text) {
		if s, ok := Blank(example, n.Properties.Text); ok {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// pickTarget finds word among candidates by text or display, case-insensitive,
// falling back to a random candidate. Callers hold g.mu.
func (g *Generator) pickTarget(candidates []*graph.Node, word string) *graph.Node {
	if word != "" {
		search := strings.ToLower(word)
		for _, n := range candidates {
			if strings.ToLower(n.Properties.Text) == search || strings.ToLower(n.Properties.Display) == search {
				return n
			}
		}
	}
	return candidates[g.rng.Intn(len(candidates))]
}

// distractors draws up to three distinct values from pool, skipping blanks,
// the answer, and anything in exclude (compared lowercased).
func (g *Generator) distractors(pool []string, answer string, exclude map[string]bool) []string {
	shuffled := append([]string(nil), pool...)
	g.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	seen := map[string]bool{answer: true}
	picked := make([]string, 0, distractorCount)
	for _, d := range shuffled {
		if len(picked) == distractorCount {
			break
		}
		if d == "" || seen[d] || exclude[strings.ToLower(d)] {
			continue
		}
		seen[d] = true
		picked = append(picked, d)
	}
	return picked
}

// options pads distractors to three with "<filler> N" and shuffles in the answer.
func (g *Generator) options(answer string, distractors []string, filler string) []string {
	for len(distractors) < distractorCount {
		distractors = append(distractors, fmt.Sprintf("%s %d", filler, len(distractors)+1))
	}
	options := append([]string{answer}, distractors...)
	g.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

func displayName(n *graph.Node) string {
	if n.Properties.Display != "" {
		return n.Properties.Display
	}
	if n.Properties.Text != "" {
		return n.Properties.Text
	}
	return "unknown"
}
