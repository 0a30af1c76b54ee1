package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/photoalbum/photoalbum-server/internal/domain"
	"github.com/photoalbum/photoalbum-server/internal/errors"
	"github.com/photoalbum/photoalbum-server/internal/keywords"
	"github.com/photoalbum/photoalbum-server/internal/search"
)

// Search messages.
const (
	MessageMissingQuery = "Missing query parameter"
	MessageNoKeywords   = "No valid keywords found in query"
)

// PhotoSearcher runs label queries against the photo index.
type PhotoSearcher interface {
	Search(ctx context.Context, params search.Params) (*search.Result, error)
}

// URLBuilder builds the public URL of a stored photo.
type URLBuilder interface {
	URL(bucket, key string) string
}

// SearchService answers the search endpoint: it turns a free-text query into
// keywords, widens them with singular and plural forms, and looks them up in
// the label index.
type SearchService struct {
	extractor keywords.Extractor
	index     PhotoSearcher
	urls      URLBuilder
	logger    *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(extractor keywords.Extractor, index PhotoSearcher, urls URLBuilder, logger *slog.Logger) *SearchService {
	return &SearchService{
		extractor: extractor,
		index:     index,
		urls:      urls,
		logger:    logger,
	}
}

// Search returns the photos whose labels match any keyword of query.
// A query without keywords is not an error: it yields no results and
// MessageNoKeywords.
func (s *SearchService) Search(ctx context.Context, query string) (*domain.SearchData, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.Validation(MessageMissingQuery)
	}

	kws, err := s.extractor.Extract(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "extract keywords")
	}
	if len(kws) == 0 {
		s.logger.Debug("no keywords in query", "query", query)
		return &domain.SearchData{Results: []domain.PhotoResult{}, Message: MessageNoKeywords}, nil
	}

	expanded := search.ExpandKeywords(kws)
	s.logger.Debug("searching photos", "query", query, "keywords", expanded)

	res, err := s.index.Search(ctx, search.Params{Keywords: expanded})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "search index")
	}

	results := make([]domain.PhotoResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		labels := hit.Labels
		if labels == nil {
			labels = []string{}
		}
		results = append(results, domain.PhotoResult{
			URL:    s.urls.URL(hit.Bucket, hit.ObjectKey),
			Labels: labels,
		})
	}

	s.logger.Info("search complete", "query", query, "results", len(results), "took_ms", res.TookMs)
	return &domain.SearchData{Results: results}, nil
}

// PageSearcher answers page searches from the local index without going
// through the HTTP search route, so page sessions are not subject to its
// per-client rate limit.
type PageSearcher struct {
	search *SearchService
}

// NewPageSearcher creates a page searcher over search.
func NewPageSearcher(search *SearchService) *PageSearcher {
	return &PageSearcher{search: search}
}

// Search returns the same envelope the search route would.
func (p *PageSearcher) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	data, err := p.search.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return &domain.SearchResponse{Success: true, Data: data}, nil
}
