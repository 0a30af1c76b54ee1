package page

import (
	"context"
	"strings"

	"github.com/photoalbum/photoalbum-server/internal/errors"
)

// AlertEmptyQuery is the blocking alert shown for an empty query.
const AlertEmptyQuery = "Please enter a search term"

// Search runs the query currently in the query input.
//
// An empty query raises an alert and returns a validation error without
// calling the search endpoint. Otherwise the results container shows the
// loading message and one call is started; earlier calls are not cancelled,
// so whichever settles last owns the results container.
func (h *Handle) Search(ctx context.Context) (*Call, error) {
	if h.Disposed() {
		return nil, errors.ErrDisposed
	}

	query := strings.TrimSpace(h.doc.Query())
	if query == "" {
		h.doc.alert(AlertEmptyQuery)
		return nil, errors.Validation(AlertEmptyQuery)
	}

	h.doc.replaceResults(MessageView(MessageLoading))

	call := newCall()
	ctx = context.WithoutCancel(ctx)

	go func() {
		resp, err := h.app.searcher.Search(ctx, query)
		if err != nil {
			h.app.logger.Error("Error performing search", "error", err, "query", query)
			h.doc.replaceResults(MessageView(MessageSearchFailed))
			call.settle(errors.Request("search failed", err))
			return
		}

		h.doc.replaceResults(RenderResults(resp.Results()))
		call.settle(nil)
	}()

	return call, nil
}
