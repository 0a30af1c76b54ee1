package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoalbum/photoalbum-server/internal/domain"
	domainerrors "github.com/photoalbum/photoalbum-server/internal/errors"
	"github.com/photoalbum/photoalbum-server/internal/id"
	"github.com/photoalbum/photoalbum-server/internal/page"
	"github.com/photoalbum/photoalbum-server/internal/sse"
)

type recordingEmitter struct {
	mu        sync.Mutex
	events    []sse.Event
	connected map[string]int
}

func (r *recordingEmitter) PageClientCount(pageID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected[pageID]
}

func (r *recordingEmitter) connect(pageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.connected == nil {
		r.connected = make(map[string]int)
	}
	r.connected[pageID]++
}

func (r *recordingEmitter) disconnect(pageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected[pageID]--
}

func (r *recordingEmitter) Emit(e sse.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEmitter) types(pageID string) []sse.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []sse.EventType
	for _, e := range r.events {
		if e.PageID == pageID {
			out = append(out, e.Type)
		}
	}
	return out
}

func (r *recordingEmitter) last(pageID string, t sse.EventType) (sse.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].PageID == pageID && r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return sse.Event{}, false
}

type stubSearcher struct {
	resp *domain.SearchResponse
	err  error
}

func (s stubSearcher) Search(context.Context, string) (*domain.SearchResponse, error) {
	return s.resp, s.err
}

type stubPutter struct {
	mu   sync.Mutex
	objs []domain.Object
	err  error
}

func (p *stubPutter) PutObject(_ context.Context, obj domain.Object) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objs = append(p.objs, obj)
	return p.err
}

func setupPageService(t *testing.T, searcher page.Searcher, putter page.ObjectPutter) (*PageService, *recordingEmitter) {
	t.Helper()

	app := page.NewApp(page.Config{
		Searcher:  searcher,
		Uploader:  putter,
		AfterFunc: func(time.Duration, func()) {},
	})
	emitter := &recordingEmitter{}
	return NewPageService(app, emitter, slog.New(slog.DiscardHandler)), emitter
}

func TestPageService_OpenGetClose(t *testing.T) {
	svc, emitter := setupPageService(t, stubSearcher{}, &stubPutter{})

	pageID, handle, err := svc.Open()
	require.NoError(t, err)
	assert.True(t, id.Valid(id.PrefixPage, pageID))
	assert.Equal(t, 1, svc.Count())

	got, err := svc.Get(pageID)
	require.NoError(t, err)
	assert.Same(t, handle, got)

	require.NoError(t, svc.Close(pageID))
	assert.True(t, handle.Disposed())
	assert.Equal(t, 0, svc.Count())
	assert.Equal(t, []sse.EventType{sse.EventPageClosed}, emitter.types(pageID))

	_, err = svc.Get(pageID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.ErrorIs(t, svc.Close(pageID), domainerrors.ErrNotFound)
}

func TestPageService_SearchPublishesResults(t *testing.T) {
	searcher := stubSearcher{resp: &domain.SearchResponse{Data: &domain.SearchData{
		Results: []domain.PhotoResult{{URL: "a.jpg", Labels: []string{"cat"}}},
	}}}
	svc, emitter := setupPageService(t, searcher, &stubPutter{})
	pageID, _, err := svc.Open()
	require.NoError(t, err)

	call, err := svc.Search(context.Background(), pageID, "  cats ")
	require.NoError(t, err)
	require.NoError(t, call.Wait())

	assert.Equal(t, []sse.EventType{sse.EventResults, sse.EventResults}, emitter.types(pageID))
	ev, ok := emitter.last(pageID, sse.EventResults)
	require.True(t, ok)
	html := ev.Data.(sse.ResultsEventData).HTML
	assert.Contains(t, html, `src="a.jpg"`)
	assert.Contains(t, html, "cat")
}

func TestPageService_EmptySearchAlerts(t *testing.T) {
	svc, emitter := setupPageService(t, stubSearcher{}, &stubPutter{})
	pageID, _, err := svc.Open()
	require.NoError(t, err)

	call, err := svc.Search(context.Background(), pageID, "   ")
	assert.Nil(t, call)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	ev, ok := emitter.last(pageID, sse.EventAlert)
	require.True(t, ok)
	assert.Equal(t, page.AlertEmptyQuery, ev.Data.(sse.AlertEventData).Message)
}

func TestPageService_UploadPublishesStatusAndClear(t *testing.T) {
	putter := &stubPutter{}
	svc, emitter := setupPageService(t, stubSearcher{}, putter)
	pageID, handle, err := svc.Open()
	require.NoError(t, err)

	file := &domain.File{Name: "cat.jpg", ContentType: "image/jpeg", Data: []byte("x")}
	call, err := svc.Upload(context.Background(), pageID, file, "cat", "outdoor")
	require.NoError(t, err)
	require.NoError(t, call.Wait())

	require.Len(t, putter.objs, 1)
	assert.Equal(t, "cat,outdoor", putter.objs[0].Metadata[domain.MetadataCustomLabels])

	assert.Equal(t,
		[]sse.EventType{sse.EventStatus, sse.EventStatus, sse.EventFormCleared},
		emitter.types(pageID))
	ev, _ := emitter.last(pageID, sse.EventStatus)
	assert.Equal(t, sse.StatusEventData{Text: page.StatusUploaded, Kind: "success"}, ev.Data)

	_, selected := handle.Document().SelectedFile()
	assert.False(t, selected)
}

func TestPageService_UploadWithoutFile(t *testing.T) {
	putter := &stubPutter{}
	svc, emitter := setupPageService(t, stubSearcher{}, putter)
	pageID, _, err := svc.Open()
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), pageID, nil, "cat", "")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Empty(t, putter.objs)

	ev, ok := emitter.last(pageID, sse.EventStatus)
	require.True(t, ok)
	assert.Equal(t, sse.StatusEventData{Text: page.StatusSelectFile, Kind: "error"}, ev.Data)
}

func TestPageService_UploadFailureKeepsForm(t *testing.T) {
	svc, _ := setupPageService(t, stubSearcher{}, &stubPutter{err: errors.New("403 Forbidden")})
	pageID, handle, err := svc.Open()
	require.NoError(t, err)

	call, err := svc.Upload(context.Background(), pageID, &domain.File{Name: "a.jpg"}, "cat", "")
	require.NoError(t, err)
	assert.ErrorIs(t, call.Wait(), domainerrors.ErrRequest)

	_, selected := handle.Document().SelectedFile()
	assert.True(t, selected)
	l1, _ := handle.Document().Labels()
	assert.Equal(t, "cat", l1)
}

func TestPageService_UnknownPage(t *testing.T) {
	svc, _ := setupPageService(t, stubSearcher{}, &stubPutter{})

	_, err := svc.Search(context.Background(), "page-missing", "cats")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = svc.Upload(context.Background(), "page-missing", nil, "", "")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPageService_ClosedPageStopsPublishing(t *testing.T) {
	svc, emitter := setupPageService(t, stubSearcher{}, &stubPutter{})
	pageID, handle, err := svc.Open()
	require.NoError(t, err)
	require.NoError(t, svc.Close(pageID))

	_, err = handle.Search(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrDisposed)
	assert.Equal(t, []sse.EventType{sse.EventPageClosed}, emitter.types(pageID))
}

func TestPageService_CloseIdle(t *testing.T) {
	svc, emitter := setupPageService(t, stubSearcher{}, &stubPutter{})
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	stale, _, err := svc.Open()
	require.NoError(t, err)
	now = now.Add(90 * time.Minute)
	fresh, _, err := svc.Open()
	require.NoError(t, err)
	now = now.Add(40 * time.Minute)

	assert.Equal(t, 1, svc.CloseIdle(time.Hour))
	assert.Equal(t, 1, svc.Count())

	_, err = svc.Get(fresh)
	require.NoError(t, err)
	_, ok := emitter.last(stale, sse.EventPageClosed)
	assert.True(t, ok)
}

func TestPageService_CloseIdleKeepsConnectedPages(t *testing.T) {
	svc, emitter := setupPageService(t, stubSearcher{}, &stubPutter{})
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	pageID, _, err := svc.Open()
	require.NoError(t, err)
	emitter.connect(pageID)

	now = now.Add(2*time.Hour + time.Minute)
	assert.Equal(t, 0, svc.CloseIdle(2*time.Hour))
	assert.Empty(t, emitter.types(pageID))

	// Idle time counts from the last pass that saw the stream open.
	emitter.disconnect(pageID)
	now = now.Add(time.Hour)
	assert.Equal(t, 0, svc.CloseIdle(2*time.Hour))

	now = now.Add(time.Hour + time.Minute)
	assert.Equal(t, 1, svc.CloseIdle(2*time.Hour))
	assert.Equal(t, []sse.EventType{sse.EventPageClosed}, emitter.types(pageID))
}

func TestPageService_Snapshot(t *testing.T) {
	searcher := stubSearcher{resp: &domain.SearchResponse{Data: &domain.SearchData{
		Results: []domain.PhotoResult{{URL: "a.jpg", Labels: []string{"cat"}}},
	}}}
	svc, _ := setupPageService(t, searcher, &stubPutter{})
	pageID, _, err := svc.Open()
	require.NoError(t, err)

	call, err := svc.Search(context.Background(), pageID, "cats")
	require.NoError(t, err)
	require.NoError(t, call.Wait())

	events, err := svc.Snapshot(pageID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, sse.EventResults, events[0].Type)
	assert.Equal(t, pageID, events[0].PageID)
	assert.Contains(t, events[0].Data.(sse.ResultsEventData).HTML, `src="a.jpg"`)

	assert.Equal(t, sse.EventStatus, events[1].Type)
	assert.Equal(t, sse.StatusEventData{Hidden: true}, events[1].Data)

	_, err = svc.Snapshot("page-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPageService_CloseAll(t *testing.T) {
	svc, _ := setupPageService(t, stubSearcher{}, &stubPutter{})
	for range 3 {
		_, _, err := svc.Open()
		require.NoError(t, err)
	}

	svc.CloseAll()
	assert.Equal(t, 0, svc.Count())
}
