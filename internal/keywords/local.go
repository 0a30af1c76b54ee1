package keywords

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/registry"
)

// queryStopWords are words people put in photo searches that never name
// what is in a photo. English stop words are removed by the analyzer.
var queryStopWords = map[string]struct{}{
	"photo": {}, "photos": {}, "picture": {}, "pictures": {},
	"image": {}, "images": {}, "pic": {}, "pics": {},
	"show": {}, "me": {}, "find": {}, "search": {}, "get": {},
	"give": {}, "display": {}, "some": {}, "all": {}, "any": {},
	"containing": {}, "contain": {}, "contains": {}, "having": {},
	"i": {}, "want": {}, "see": {}, "please": {},
}

// LocalExtractor splits the query with the same standard analyzer the index
// applies to labels and drops stop words. It is used when no Lex bot is
// configured.
type LocalExtractor struct {
	analyzer analysis.Analyzer
}

// NewLocalExtractor creates a local extractor.
func NewLocalExtractor() (*LocalExtractor, error) {
	a, err := registry.NewCache().AnalyzerNamed(standard.Name)
	if err != nil {
		return nil, fmt.Errorf("load %s analyzer: %w", standard.Name, err)
	}
	return &LocalExtractor{analyzer: a}, nil
}

// Extract implements Extractor. Keywords keep their order of first
// appearance.
func (e *LocalExtractor) Extract(_ context.Context, query string) ([]string, error) {
	keywords := []string{}
	seen := make(map[string]struct{})
	for _, tok := range e.analyzer.Analyze([]byte(query)) {
		term := string(tok.Term)
		if _, stop := queryStopWords[term]; stop {
			continue
		}
		keywords = appendUnique(keywords, seen, term)
	}
	return keywords, nil
}
