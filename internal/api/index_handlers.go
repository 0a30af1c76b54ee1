package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/photoalbum/photoalbum-server/internal/errors"
	"github.com/photoalbum/photoalbum-server/internal/service"
)

func (s *Server) registerIndexRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "indexStorageEvent",
		Method:        http.MethodPost,
		Path:          "/index/events",
		Summary:       "Index stored photos",
		Description:   "Accepts an S3 event notification. Created objects are indexed and removed objects dropped from the index. Failed records are counted and skipped.",
		Tags:          []string{"Index"},
		DefaultStatus: http.StatusOK,
	}, s.handleIndexEvent)
}

// IndexEventInput carries an S3 event notification document.
type IndexEventInput struct {
	RawBody []byte
}

// IndexEventOutput reports what was indexed.
type IndexEventOutput struct {
	Body service.IndexReport
}

func (s *Server) handleIndexEvent(ctx context.Context, input *IndexEventInput) (*IndexEventOutput, error) {
	var event events.S3Event
	if err := json.Unmarshal(input.RawBody, &event); err != nil {
		return nil, toAPIError(domainerrors.Validation("body is not an S3 event notification"))
	}
	if len(event.Records) == 0 {
		return nil, toAPIError(domainerrors.Validation("notification has no records"))
	}

	report := s.services.Index.HandleS3Event(ctx, event)
	return &IndexEventOutput{Body: *report}, nil
}
