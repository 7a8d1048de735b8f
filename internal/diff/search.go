package diff

import "strings"

// Select returns the items matching any comma-separated term of query. Terms
// are trimmed and matched as case-insensitive substrings; empty terms are
// ignored. Output keeps item order.
func Select(items []string, query string) []string {
	terms := ParseTerms(query)
	if len(terms) == 0 {
		return nil
	}

	var out []string
	for _, item := range items {
		lower := strings.ToLower(item)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// ParseTerms splits a search query into lowercase, non-empty terms.
func ParseTerms(query string) []string {
	var terms []string
	for _, part := range strings.Split(query, ",") {
		term := strings.ToLower(strings.TrimSpace(part))
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}
