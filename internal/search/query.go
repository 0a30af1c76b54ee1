package search

import (
	"context"
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// DefaultLimit is the number of hits returned when Params.Limit is zero.
const DefaultLimit = 10

// Params configures a label search.
type Params struct {
	// Keywords are matched against labels; any one match is enough.
	Keywords []string
	Limit    int
}

// Result holds the hits of a search, best match first.
type Result struct {
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit is one matching photo.
type Hit struct {
	ID        string    `json:"id"`
	Score     float64   `json:"score"`
	Bucket    string    `json:"bucket"`
	ObjectKey string    `json:"objectKey"`
	Labels    []string  `json:"labels"`
	Created   time.Time `json:"createdTimestamp"`
}

// Search runs a label query. No keywords means no hits.
func (s *PhotoIndex) Search(ctx context.Context, params Params) (*Result, error) {
	if len(params.Keywords) == 0 {
		return &Result{Hits: []Hit{}}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildLabelsQuery(params.Keywords), limit, 0, false)
	req.SortBy([]string{"-_score", "-" + fieldCreated, "_id"})
	req.Fields = []string{fieldBucket, fieldObjectKey, fieldLabels, fieldCreated}

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, h := range res.Hits {
		hit := Hit{
			ID:     h.ID,
			Score:  h.Score,
			Labels: stringSlice(h.Fields[fieldLabels]),
		}
		if b, ok := h.Fields[fieldBucket].(string); ok {
			hit.Bucket = b
		}
		if k, ok := h.Fields[fieldObjectKey].(string); ok {
			hit.ObjectKey = k
		}
		if c, ok := h.Fields[fieldCreated].(string); ok {
			if t, err := time.Parse(time.RFC3339, c); err == nil {
				hit.Created = t
			}
		}
		result.Hits = append(result.Hits, hit)
	}

	return result, nil
}

// buildLabelsQuery matches any keyword against the labels field.
func buildLabelsQuery(keywords []string) query.Query {
	matches := make([]query.Query, 0, len(keywords))
	for _, k := range keywords {
		mq := bleve.NewMatchQuery(k)
		mq.SetField(fieldLabels)
		matches = append(matches, mq)
	}

	q := bleve.NewDisjunctionQuery(matches...)
	q.SetMin(1)
	return q
}

// stringSlice normalizes a stored multi-value field. Bleve returns a bare
// value for a single entry and a slice otherwise.
func stringSlice(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}
