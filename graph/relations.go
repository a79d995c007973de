package graph

// DefaultRelatedLimit is used when callers pass a non-positive limit.
const DefaultRelatedLimit = 5

// Synonyms returns up to limit display names linked by SYNONYM_OF.
func (ix *Index) Synonyms(word string, limit int) []string {
	return ix.Related(word, RelSynonymOf, limit)
}

// Antonyms returns up to limit display names linked by ANTONYM_OF.
func (ix *Index) Antonyms(word string, limit int) []string {
	return ix.Related(word, RelAntonymOf, limit)
}

// Related lists display names of words linked to word by relation in either
// direction: outgoing targets first, then incoming sources. Only the exact
// word id is consulted. Duplicates keep their first position.
func (ix *Index) Related(word, relation string, limit int) []string {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	wordID := WordID(word)

	seen := make(map[string]bool)
	related := []string{}
	add := func(id string) {
		n, ok := ix.nodeIndex[id]
		if !ok || n.Properties.Display == "" || seen[n.Properties.Display] {
			return
		}
		seen[n.Properties.Display] = true
		related = append(related, n.Properties.Display)
	}

	for _, e := range ix.edgesBySource[wordID] {
		if e.Type == relation {
			add(e.Target)
		}
	}
	for _, e := range ix.edgesByTarget[wordID] {
		if e.Type == relation {
			add(e.Source)
		}
	}

	if len(related) > limit {
		related = related[:limit]
	}
	return related
}
