package service

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/photoalbum/photoalbum-server/internal/domain"
	"github.com/photoalbum/photoalbum-server/internal/errors"
	"github.com/photoalbum/photoalbum-server/internal/id"
	"github.com/photoalbum/photoalbum-server/internal/page"
	"github.com/photoalbum/photoalbum-server/internal/sse"
)

// DefaultPageIdleTTL is how long a page session may go untouched, with no
// browser connected to its event stream, before CloseIdle disposes it.
const DefaultPageIdleTTL = 2 * time.Hour

// EventEmitter publishes events to connected browsers.
type EventEmitter interface {
	Emit(event sse.Event)
	PageClientCount(pageID string) int
}

type pageSession struct {
	handle   *page.Handle
	lastSeen time.Time
}

// PageService keeps one page session per open browser page and mirrors each
// session's document changes to that page's event stream.
type PageService struct {
	app    *page.App
	events EventEmitter
	logger *slog.Logger
	now    func() time.Time

	mu    sync.Mutex
	pages map[string]*pageSession
}

// NewPageService creates a new page service.
func NewPageService(app *page.App, events EventEmitter, logger *slog.Logger) *PageService {
	return &PageService{
		app:    app,
		events: events,
		logger: logger,
		now:    time.Now,
		pages:  make(map[string]*pageSession),
	}
}

// Open creates a page session with an empty document.
func (s *PageService) Open() (string, *page.Handle, error) {
	pageID, err := id.NewPageID()
	if err != nil {
		return "", nil, errors.Wrap(err, errors.CodeInternal, "generate page id")
	}

	doc := page.NewDocument()
	doc.SetListener(s.publisher(pageID))
	handle := s.app.Init(doc)

	s.mu.Lock()
	s.pages[pageID] = &pageSession{handle: handle, lastSeen: s.now()}
	total := len(s.pages)
	s.mu.Unlock()

	s.logger.Debug("page opened", "page_id", pageID, "total_pages", total)
	return pageID, handle, nil
}

// Get returns the session for pageID and marks it as used.
func (s *PageService) Get(pageID string) (*page.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.pages[pageID]
	if !ok {
		return nil, errors.NotFoundf("page %s not found", pageID)
	}
	sess.lastSeen = s.now()
	return sess.handle, nil
}

// Search sets the query input of a page and runs its Search Invoker.
func (s *PageService) Search(ctx context.Context, pageID, query string) (*page.Call, error) {
	h, err := s.Get(pageID)
	if err != nil {
		return nil, err
	}
	h.Document().SetQuery(query)
	return h.Search(ctx)
}

// Upload fills the upload form of a page and runs its Upload Invoker.
// A nil file leaves the file input empty.
func (s *PageService) Upload(ctx context.Context, pageID string, file *domain.File, label1, label2 string) (*page.Call, error) {
	h, err := s.Get(pageID)
	if err != nil {
		return nil, err
	}

	doc := h.Document()
	if file != nil {
		doc.SelectFiles(*file)
	} else {
		doc.SelectFiles()
	}
	doc.SetLabels(label1, label2)
	return h.Upload(ctx)
}

// Close disposes the session for pageID and tells its browsers.
func (s *PageService) Close(pageID string) error {
	s.mu.Lock()
	sess, ok := s.pages[pageID]
	delete(s.pages, pageID)
	total := len(s.pages)
	s.mu.Unlock()

	if !ok {
		return errors.NotFoundf("page %s not found", pageID)
	}

	sess.handle.Dispose()
	s.events.Emit(sse.NewPageClosedEvent(pageID))
	s.logger.Debug("page closed", "page_id", pageID, "total_pages", total)
	return nil
}

// CloseIdle disposes every session untouched for longer than ttl and
// returns how many were closed. A session with a browser on its event
// stream is in use and counts as touched now.
func (s *PageService) CloseIdle(ttl time.Duration) int {
	now := s.now()
	cutoff := now.Add(-ttl)

	s.mu.Lock()
	var idle []string
	for pageID, sess := range s.pages {
		if s.events.PageClientCount(pageID) > 0 {
			sess.lastSeen = now
			continue
		}
		if sess.lastSeen.Before(cutoff) {
			idle = append(idle, pageID)
		}
	}
	s.mu.Unlock()

	closed := 0
	for _, pageID := range idle {
		if s.Close(pageID) == nil {
			closed++
		}
	}
	if closed > 0 {
		s.logger.Info("closed idle pages", "count", closed)
	}
	return closed
}

// RunJanitor closes idle sessions every interval until ctx is done.
func (s *PageService) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CloseIdle(ttl)
		}
	}
}

// CloseAll disposes every session.
func (s *PageService) CloseAll() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.pages))
	for pageID := range s.pages {
		ids = append(ids, pageID)
	}
	s.mu.Unlock()

	for _, pageID := range ids {
		_ = s.Close(pageID) //nolint:errcheck // Concurrent close is fine
	}
}

// Count returns the number of open sessions.
func (s *PageService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Snapshot returns the events that bring a browser connecting to pageID up
// to date: the current results container and status message.
func (s *PageService) Snapshot(pageID string) ([]sse.Event, error) {
	h, err := s.Get(pageID)
	if err != nil {
		return nil, err
	}

	doc := h.Document()
	results, err := s.resultsEvent(pageID, doc.Results())
	if err != nil {
		return nil, err
	}
	status := doc.Status()
	return []sse.Event{
		results,
		sse.NewStatusEvent(pageID, status.Text, string(status.Kind), status.Hidden),
	}, nil
}

func (s *PageService) resultsEvent(pageID string, v page.ResultsView) (sse.Event, error) {
	var buf bytes.Buffer
	if err := v.WriteHTML(&buf); err != nil {
		return sse.Event{}, errors.Wrap(err, errors.CodeInternal, "render results")
	}
	return sse.NewResultsEvent(pageID, buf.String()), nil
}

// publisher returns the document listener for pageID. It runs under the
// document lock, so events leave in the order the document changed.
func (s *PageService) publisher(pageID string) page.Listener {
	return func(c page.Change) {
		switch c.Kind {
		case page.ChangeResults:
			ev, err := s.resultsEvent(pageID, c.Results)
			if err != nil {
				s.logger.Error("render results failed", "page_id", pageID, "error", err)
				return
			}
			s.events.Emit(ev)
		case page.ChangeStatus:
			s.events.Emit(sse.NewStatusEvent(pageID, c.Status.Text, string(c.Status.Kind), c.Status.Hidden))
		case page.ChangeFormCleared:
			s.events.Emit(sse.NewFormClearedEvent(pageID))
		case page.ChangeAlert:
			s.events.Emit(sse.NewAlertEvent(pageID, c.Alert))
		}
	}
}
