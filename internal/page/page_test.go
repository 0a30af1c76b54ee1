package page

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photoalbum/photoalbum-server/internal/domain"
	domainerrors "github.com/photoalbum/photoalbum-server/internal/errors"
)

// fakeSearcher records queries and answers with a fixed response.
// When gate is set, each call blocks until a value is received from it.
type fakeSearcher struct {
	mu      sync.Mutex
	queries []string
	resp    func(query string) (*domain.SearchResponse, error)
	gate    chan struct{}
}

func (f *fakeSearcher) Search(_ context.Context, query string) (*domain.SearchResponse, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if f.gate != nil {
		<-f.gate
	}
	return f.resp(query)
}

func (f *fakeSearcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type fakePutter struct {
	mu      sync.Mutex
	objects []domain.Object
	err     error
}

func (f *fakePutter) PutObject(_ context.Context, obj domain.Object) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects = append(f.objects, obj)
	return f.err
}

func (f *fakePutter) puts() []domain.Object {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Object(nil), f.objects...)
}

// manualTimers captures scheduled hides so tests decide when they fire.
type manualTimers struct {
	mu      sync.Mutex
	delays  []time.Duration
	pending []func()
}

func (m *manualTimers) afterFunc(d time.Duration, f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.pending = append(m.pending, f)
}

func (m *manualTimers) fireAll() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, f := range pending {
		f()
	}
}

func (m *manualTimers) scheduled() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.delays...)
}

type changeRecorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *changeRecorder) listen(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *changeRecorder) kinds() []ChangeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]ChangeKind, 0, len(r.changes))
	for _, c := range r.changes {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}

type testPage struct {
	handle   *Handle
	doc      *Document
	searcher *fakeSearcher
	putter   *fakePutter
	timers   *manualTimers
	changes  *changeRecorder
}

func setupTestPage(t *testing.T) *testPage {
	t.Helper()

	searcher := &fakeSearcher{
		resp: func(string) (*domain.SearchResponse, error) {
			return &domain.SearchResponse{Success: true, Data: &domain.SearchData{}}, nil
		},
	}
	putter := &fakePutter{}
	timers := &manualTimers{}
	changes := &changeRecorder{}

	app := NewApp(Config{
		Searcher:  searcher,
		Uploader:  putter,
		AfterFunc: timers.afterFunc,
	})

	doc := NewDocument()
	doc.SetListener(changes.listen)

	return &testPage{
		handle:   app.Init(doc),
		doc:      doc,
		searcher: searcher,
		putter:   putter,
		timers:   timers,
		changes:  changes,
	}
}

func TestSearch_IssuesOneCallWithTrimmedQuery(t *testing.T) {
	p := setupTestPage(t)
	p.doc.SetQuery("  sunset beach  ")

	call, err := p.handle.Search(context.Background())
	require.NoError(t, err)
	require.NoError(t, call.Wait())

	assert.Equal(t, []string{"sunset beach"}, p.searcher.calls())
}

func TestSearch_EmptyQueryIsRejected(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		t.Run(q, func(t *testing.T) {
			p := setupTestPage(t)
			p.doc.SetQuery(q)

			call, err := p.handle.Search(context.Background())
			assert.Nil(t, call)
			assert.True(t, errors.Is(err, domainerrors.ErrValidation))
			assert.Empty(t, p.searcher.calls())
			assert.Equal(t, []ChangeKind{ChangeAlert}, p.changes.kinds())
			assert.Equal(t, AlertEmptyQuery, p.changes.changes[0].Alert)
		})
	}
}

func TestSearch_ShowsLoadingWhilePending(t *testing.T) {
	p := setupTestPage(t)
	p.searcher.gate = make(chan struct{})
	p.doc.SetQuery("cats")

	call, err := p.handle.Search(context.Background())
	require.NoError(t, err)

	assert.Equal(t, MessageLoading, p.doc.Results().Message)

	p.searcher.gate <- struct{}{}
	require.NoError(t, call.Wait())
	assert.Equal(t, MessageNoResults, p.doc.Results().Message)
}

func TestSearch_RendersResults(t *testing.T) {
	p := setupTestPage(t)
	p.searcher.resp = func(string) (*domain.SearchResponse, error) {
		return &domain.SearchResponse{Data: &domain.SearchData{Results: []domain.PhotoResult{
			{URL: "a.jpg", Labels: []string{"cat", "outdoor"}},
		}}}, nil
	}
	p.doc.SetQuery("cat")

	call, err := p.handle.Search(context.Background())
	require.NoError(t, err)
	require.NoError(t, call.Wait())

	view := p.doc.Results()
	assert.Empty(t, view.Message)
	require.Len(t, view.Cards, 1)
	assert.Equal(t, "a.jpg", view.Cards[0].ImageURL)
	assert.Equal(t, []Chip{{Text: "cat"}, {Text: "outdoor"}}, view.Cards[0].Chips)
}

func TestSearch_MissingResultsMeansNoResults(t *testing.T) {
	responses := map[string]*domain.SearchResponse{
		"nil response": nil,
		"no data":      {Success: true},
		"no results":   {Success: true, Data: &domain.SearchData{Message: "No valid keywords found in query"}},
	}

	for name, resp := range responses {
		t.Run(name, func(t *testing.T) {
			p := setupTestPage(t)
			p.searcher.resp = func(string) (*domain.SearchResponse, error) { return resp, nil }
			p.doc.SetQuery("anything")

			call, err := p.handle.Search(context.Background())
			require.NoError(t, err)
			require.NoError(t, call.Wait())

			assert.Equal(t, MessageView(MessageNoResults), p.doc.Results())
		})
	}
}

func TestSearch_FailureShowsGenericMessage(t *testing.T) {
	p := setupTestPage(t)
	p.searcher.resp = func(string) (*domain.SearchResponse, error) {
		return nil, errors.New("connection refused: 10.0.0.1:443")
	}
	p.doc.SetQuery("cats")

	call, err := p.handle.Search(context.Background())
	require.NoError(t, err)

	err = call.Wait()
	assert.True(t, errors.Is(err, domainerrors.ErrRequest))
	assert.Equal(t, MessageView(MessageSearchFailed), p.doc.Results())
}

func TestSearch_LastSettlementWins(t *testing.T) {
	p := setupTestPage(t)
	first := make(chan struct{})
	p.searcher.resp = func(q string) (*domain.SearchResponse, error) {
		if q == "first" {
			<-first
		}
		return &domain.SearchResponse{Data: &domain.SearchData{Results: []domain.PhotoResult{{URL: q + ".jpg"}}}}, nil
	}

	p.doc.SetQuery("first")
	slow, err := p.handle.Search(context.Background())
	require.NoError(t, err)

	p.doc.SetQuery("second")
	fast, err := p.handle.Search(context.Background())
	require.NoError(t, err)
	require.NoError(t, fast.Wait())
	assert.Equal(t, "second.jpg", p.doc.Results().Cards[0].ImageURL)

	close(first)
	require.NoError(t, slow.Wait())
	assert.Equal(t, "first.jpg", p.doc.Results().Cards[0].ImageURL)
}

func TestSearch_SurvivesRequestCancellation(t *testing.T) {
	p := setupTestPage(t)
	p.doc.SetQuery("cats")

	ctx, cancel := context.WithCancel(context.Background())
	call, err := p.handle.Search(ctx)
	require.NoError(t, err)
	cancel()

	require.NoError(t, call.Wait())
}

func TestUpload_WithoutFileShowsError(t *testing.T) {
	p := setupTestPage(t)
	p.doc.SetLabels("cat", "")

	call, err := p.handle.Upload(context.Background())
	assert.Nil(t, call)
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))
	assert.Empty(t, p.putter.puts())

	status := p.doc.Status()
	assert.Equal(t, StatusSelectFile, status.Text)
	assert.Equal(t, domain.StatusError, status.Kind)
	assert.False(t, status.Hidden)
	assert.Empty(t, p.timers.scheduled())
}

func TestUpload_Success(t *testing.T) {
	p := setupTestPage(t)
	p.doc.SelectFiles(
		domain.File{Name: "my cat.jpg", ContentType: "image/jpeg", Data: []byte("jpeg-bytes")},
		domain.File{Name: "ignored.png", ContentType: "image/png"},
	)
	p.doc.SetLabels(" cat ", "outdoor")

	call, err := p.handle.Upload(context.Background())
	require.NoError(t, err)
	require.NoError(t, call.Wait())

	puts := p.putter.puts()
	require.Len(t, puts, 1)
	assert.Equal(t, "my cat.jpg", puts[0].Key)
	assert.Equal(t, "image/jpeg", puts[0].ContentType)
	assert.Equal(t, map[string]string{domain.MetadataCustomLabels: "cat,outdoor"}, puts[0].Metadata)
	assert.Equal(t, []byte("jpeg-bytes"), puts[0].Body)

	status := p.doc.Status()
	assert.Equal(t, StatusUploaded, status.Text)
	assert.Equal(t, domain.StatusSuccess, status.Kind)
	assert.False(t, status.Hidden)

	_, hasFile := p.doc.SelectedFile()
	assert.False(t, hasFile)
	l1, l2 := p.doc.Labels()
	assert.Empty(t, l1)
	assert.Empty(t, l2)
	assert.Contains(t, p.changes.kinds(), ChangeFormCleared)

	assert.Equal(t, []time.Duration{5000 * time.Millisecond}, p.timers.scheduled())
	p.timers.fireAll()
	assert.True(t, p.doc.Status().Hidden)
}

func TestUpload_EmptyLabelsStillSendMetadata(t *testing.T) {
	p := setupTestPage(t)
	p.doc.SelectFiles(domain.File{Name: "a.png", ContentType: "image/png"})

	call, err := p.handle.Upload(context.Background())
	require.NoError(t, err)
	require.NoError(t, call.Wait())

	puts := p.putter.puts()
	require.Len(t, puts, 1)
	value, ok := puts[0].Metadata[domain.MetadataCustomLabels]
	assert.True(t, ok)
	assert.Equal(t, "", value)
}

func TestUpload_FailureKeepsForm(t *testing.T) {
	p := setupTestPage(t)
	p.putter.err = errors.New("403 Forbidden")
	p.doc.SelectFiles(domain.File{Name: "a.jpg", ContentType: "image/jpeg"})
	p.doc.SetLabels("cat", "outdoor")

	call, err := p.handle.Upload(context.Background())
	require.NoError(t, err)
	assert.True(t, errors.Is(call.Wait(), domainerrors.ErrRequest))

	status := p.doc.Status()
	assert.Equal(t, StatusUploadFailed, status.Text)
	assert.Equal(t, domain.StatusError, status.Kind)

	file, ok := p.doc.SelectedFile()
	assert.True(t, ok)
	assert.Equal(t, "a.jpg", file.Name)
	l1, l2 := p.doc.Labels()
	assert.Equal(t, "cat", l1)
	assert.Equal(t, "outdoor", l2)

	assert.Empty(t, p.timers.scheduled())
	assert.NotContains(t, p.changes.kinds(), ChangeFormCleared)
}

func TestStatusReporter_StaleHideStillFires(t *testing.T) {
	p := setupTestPage(t)
	status := p.handle.Status()

	status.Show("Photo uploaded successfully!", domain.StatusSuccess)
	status.Show("Uploading photo...", domain.StatusInfo)
	assert.False(t, p.doc.Status().Hidden)

	p.timers.fireAll()

	got := p.doc.Status()
	assert.True(t, got.Hidden)
	assert.Equal(t, "Uploading photo...", got.Text)
}

func TestStatusReporter_ErrorsStayVisible(t *testing.T) {
	p := setupTestPage(t)
	p.handle.Status().Show("boom", domain.StatusError)
	p.timers.fireAll()
	assert.False(t, p.doc.Status().Hidden)
}

func TestHandle_Dispose(t *testing.T) {
	p := setupTestPage(t)
	p.doc.SetQuery("cats")
	p.handle.Dispose()
	p.handle.Dispose()

	_, err := p.handle.Search(context.Background())
	assert.True(t, errors.Is(err, domainerrors.ErrDisposed))
	_, err = p.handle.Upload(context.Background())
	assert.True(t, errors.Is(err, domainerrors.ErrDisposed))
	assert.Empty(t, p.searcher.calls())
}

func TestRenderResults(t *testing.T) {
	t.Run("nil renders no results", func(t *testing.T) {
		assert.Equal(t, ResultsView{Message: MessageNoResults}, RenderResults(nil))
	})

	t.Run("empty renders no results", func(t *testing.T) {
		assert.Equal(t, ResultsView{Message: MessageNoResults}, RenderResults([]domain.PhotoResult{}))
	})

	t.Run("empty labels render placeholder", func(t *testing.T) {
		view := RenderResults([]domain.PhotoResult{{URL: "b.jpg", Labels: []string{}}})
		require.Len(t, view.Cards, 1)
		assert.Equal(t, []Chip{{Text: "No labels", Placeholder: true}}, view.Cards[0].Chips)
	})

	t.Run("keeps input order and duplicates", func(t *testing.T) {
		view := RenderResults([]domain.PhotoResult{
			{URL: "z.jpg", Labels: []string{"b", "a"}},
			{URL: "a.jpg"},
			{URL: "z.jpg", Labels: []string{"b", "a"}},
		})
		require.Len(t, view.Cards, 3)
		assert.Equal(t, "z.jpg", view.Cards[0].ImageURL)
		assert.Equal(t, "a.jpg", view.Cards[1].ImageURL)
		assert.Equal(t, "z.jpg", view.Cards[2].ImageURL)
		assert.Equal(t, "b", view.Cards[0].Chips[0].Text)
	})
}

func TestResultsView_WriteHTML(t *testing.T) {
	var buf bytes.Buffer
	view := RenderResults([]domain.PhotoResult{
		{URL: "a.jpg", Labels: []string{"cat", "<b>outdoor</b>"}},
		{URL: "b.jpg"},
	})
	require.NoError(t, view.WriteHTML(&buf))

	html := buf.String()
	assert.Contains(t, html, `<div class="photo-card"><img src="a.jpg" alt="Photo result">`)
	assert.Contains(t, html, `<span class="label-chip">cat</span>`)
	assert.Contains(t, html, `<span class="label-chip">&lt;b&gt;outdoor&lt;/b&gt;</span>`)
	assert.Contains(t, html, `<span>No labels</span>`)

	buf.Reset()
	require.NoError(t, MessageView(MessageLoading).WriteHTML(&buf))
	assert.Equal(t, "<p>Loading results...</p>", buf.String())
}
