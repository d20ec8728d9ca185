package mdtable

import (
	"regexp"
	"strings"
)

// JaccardThreshold is the minimum word-level similarity for the fuzzy stage
// of table-name resolution. The value is inherited behavior; it is exported
// so callers can reason about (or tune) the cutoff.
const JaccardThreshold = 0.5

var wordPattern = regexp.MustCompile(`\w+`)

// ResolveTitle resolves a user-supplied, possibly partial or misspelled table
// name against the document's actual titles. Tie-break order:
//
//  1. case-insensitive exact equality
//  2. case-insensitive substring containment in either direction,
//     first candidate in order wins
//  3. highest word-token Jaccard similarity, if at least JaccardThreshold
//
// Returns false when nothing clears the bar.
func ResolveTitle(candidates []string, query string) (string, bool) {
	q := strings.ToLower(query)

	for _, c := range candidates {
		if strings.ToLower(c) == q {
			return c, true
		}
	}

	for _, c := range candidates {
		lc := strings.ToLower(c)
		if strings.Contains(lc, q) || strings.Contains(q, lc) {
			return c, true
		}
	}

	best := ""
	bestScore := 0.0
	queryTokens := tokenize(q)
	for _, c := range candidates {
		score := jaccard(queryTokens, tokenize(strings.ToLower(c)))
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	if bestScore >= JaccardThreshold {
		return best, true
	}
	return "", false
}

func tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(s, -1) {
		tokens[w] = struct{}{}
	}
	return tokens
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
