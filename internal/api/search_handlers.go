package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/photoalbum/photoalbum-server/internal/domain"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchPhotos",
		Method:      http.MethodGet,
		Path:        "/search",
		Summary:     "Search photos",
		Description: "Finds photos whose labels match the keywords of a free-text query. Singular and plural forms of each keyword match too.",
		Tags:        []string{"Search"},
		Middlewares: huma.Middlewares{s.rateLimitSearch},
	}, s.handleSearch)
}

// SearchInput contains parameters for searching photos.
type SearchInput struct {
	Q string `query:"q" maxLength:"1024" doc:"Free-text query, e.g. 'show me dogs and cats'"`
}

// SearchOutput contains search results.
type SearchOutput struct {
	Body domain.SearchData
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	data, err := s.services.Search.Search(ctx, input.Q)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &SearchOutput{Body: *data}, nil
}
