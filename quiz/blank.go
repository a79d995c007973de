package quiz

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// BlankMarker replaces the quizzed word in cloze sentences.
const BlankMarker = "____"

// Blank replaces every token of sentence that is word, or a regular
// inflection of it, with BlankMarker. Spacing and punctuation of the
// original sentence are kept. ok is false when nothing was blanked.
func Blank(sentence, word string) (string, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if sentence == "" || word == "" {
		return sentence, false
	}

	doc, err := prose.NewDocument(sentence,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return sentence, false
	}

	var b strings.Builder
	cursor := 0
	blanked := false
	for _, tok := range doc.Tokens() {
		offset := strings.Index(sentence[cursor:], tok.Text)
		if offset < 0 {
			continue
		}
		start := cursor + offset
		end := start + len(tok.Text)
		b.WriteString(sentence[cursor:start])
		if matchesWord(tok.Text, word) {
			b.WriteString(BlankMarker)
			blanked = true
		} else {
			b.WriteString(tok.Text)
		}
		cursor = end
	}
	b.WriteString(sentence[cursor:])

	if !blanked {
		return sentence, false
	}
	return b.String(), true
}

// matchesWord accepts word and its regular inflections: runs, watches,
// walked, walking, walker, and the spelling changes of moved, making,
// running and studied. Other tokens that merely start with word (only for
// "on", cart for "car") do not match.
func matchesWord(token, word string) bool {
	token = strings.ToLower(token)
	if token == word {
		return true
	}
	rest, ok := strings.CutPrefix(token, word)
	if ok && inflectionSuffixes[rest] {
		return true
	}

	last := word[len(word)-1]
	stem := word[:len(word)-1]
	switch {
	case last == 'e':
		return token == word+"d" || token == word+"r" || token == stem+"ing"
	case last == 'y':
		return token == stem+"ies" || token == stem+"ied"
	case !strings.ContainsRune("aeiouwxy", rune(last)):
		doubled := word + string(last)
		return token == doubled+"ed" || token == doubled+"ing" || token == doubled+"er"
	}
	return false
}

var inflectionSuffixes = map[string]bool{
	"s":   true,
	"es":  true,
	"ed":  true,
	"ing": true,
	"er":  true,
}
