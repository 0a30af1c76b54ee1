// Package keywords turns a free-text search query into label keywords.
package keywords

import "context"

// Extractor pulls lowercased keywords out of a query. An empty result means
// the query named nothing searchable.
type Extractor interface {
	Extract(ctx context.Context, query string) ([]string, error)
}

// appendUnique appends kw to dst unless it is empty or already present.
func appendUnique(dst []string, seen map[string]struct{}, kw string) []string {
	if kw == "" {
		return dst
	}
	if _, ok := seen[kw]; ok {
		return dst
	}
	seen[kw] = struct{}{}
	return append(dst, kw)
}
