package graph

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Tier is the strategy that matched during word resolution.
type Tier int

const (
	TierNone Tier = iota
	TierExactID
	TierExactProperty
	TierPrefix
)

func (t Tier) String() string {
	switch t {
	case TierExactID:
		return "exact_id"
	case TierExactProperty:
		return "exact_property"
	case TierPrefix:
		return "prefix"
	default:
		return "none"
	}
}

// Resolve maps a user supplied word onto a canonical node id. Tiers are tried
// in order and the first one that matches wins:
//
//  1. "word:" + lowercase(word) is a known id
//  2. first Word node whose lowercased text or display equals the input
//  3. Word nodes whose lowercased text or display starts with the input,
//     choosing the shortest text (stable, so earlier nodes win ties)
func (ix *Index) Resolve(word string) (string, Tier, bool) {
	search := normalize(word)

	if _, ok := ix.nodeIndex[WordIDPrefix+search]; ok {
		resolveTotal.WithLabelValues(TierExactID.String()).Inc()
		return WordIDPrefix + search, TierExactID, true
	}

	for _, n := range ix.words {
		if equals(n.Properties.Text, search) || equals(n.Properties.Display, search) {
			resolveTotal.WithLabelValues(TierExactProperty.String()).Inc()
			return n.ID, TierExactProperty, true
		}
	}

	var matches []*Node
	for _, n := range ix.words {
		if hasPrefix(n.Properties.Text, search) || hasPrefix(n.Properties.Display, search) {
			matches = append(matches, n)
		}
	}
	if len(matches) > 0 {
		// Only text length counts; nodes without text compare as length 0.
		sort.SliceStable(matches, func(i, j int) bool {
			return utf8.RuneCountInString(matches[i].Properties.Text) < utf8.RuneCountInString(matches[j].Properties.Text)
		})
		resolveTotal.WithLabelValues(TierPrefix.String()).Inc()
		return matches[0].ID, TierPrefix, true
	}

	resolveTotal.WithLabelValues(TierNone.String()).Inc()
	return "", TierNone, false
}

// equals and hasPrefix match only present properties, so an absent text or
// display never matches, not even an empty search.
func equals(value, search string) bool {
	return value != "" && normalize(value) == search
}

func hasPrefix(value, search string) bool {
	return value != "" && strings.HasPrefix(normalize(value), search)
}
