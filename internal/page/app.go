package page

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/photoalbum/photoalbum-server/internal/domain"
)

// Searcher issues one query against the search endpoint.
type Searcher interface {
	Search(ctx context.Context, query string) (*domain.SearchResponse, error)
}

// ObjectPutter writes one object to object storage.
type ObjectPutter interface {
	PutObject(ctx context.Context, obj domain.Object) error
}

// Config holds the collaborators of the page.
type Config struct {
	Searcher Searcher
	Uploader ObjectPutter
	Logger   *slog.Logger

	// AutoHide defaults to DefaultAutoHide.
	AutoHide time.Duration
	// AfterFunc defaults to time.AfterFunc.
	AfterFunc AfterFunc
}

// App wires the invokers to their collaborators. One App serves any number
// of documents.
type App struct {
	searcher  Searcher
	uploader  ObjectPutter
	logger    *slog.Logger
	autoHide  time.Duration
	afterFunc AfterFunc
}

// NewApp creates an App.
func NewApp(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	autoHide := cfg.AutoHide
	if autoHide <= 0 {
		autoHide = DefaultAutoHide
	}
	afterFunc := cfg.AfterFunc
	if afterFunc == nil {
		afterFunc = realAfterFunc
	}

	return &App{
		searcher:  cfg.Searcher,
		uploader:  cfg.Uploader,
		logger:    logger,
		autoHide:  autoHide,
		afterFunc: afterFunc,
	}
}

// Init attaches the page behavior to doc. It is called once per document.
func (a *App) Init(doc *Document) *Handle {
	return &Handle{
		app: a,
		doc: doc,
		status: &StatusReporter{
			doc:       doc,
			autoHide:  a.autoHide,
			afterFunc: a.afterFunc,
		},
	}
}

// Handle is an initialized page.
type Handle struct {
	app      *App
	doc      *Document
	status   *StatusReporter
	disposed atomic.Bool
}

// Document returns the page's document.
func (h *Handle) Document() *Document {
	return h.doc
}

// Status returns the page's status reporter.
func (h *Handle) Status() *StatusReporter {
	return h.status
}

// Dispose detaches the document listener and rejects further invocations.
// Calls already in flight still settle and update the document.
func (h *Handle) Dispose() {
	if h.disposed.CompareAndSwap(false, true) {
		h.doc.SetListener(nil)
	}
}

// Disposed reports whether Dispose has been called.
func (h *Handle) Disposed() bool {
	return h.disposed.Load()
}

// Call is a pending outbound call. It settles exactly once.
type Call struct {
	done chan struct{}
	err  error
}

func newCall() *Call {
	return &Call{done: make(chan struct{})}
}

func (c *Call) settle(err error) {
	c.err = err
	close(c.done)
}

// Done is closed when the call settles.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call settles and returns its failure, if any.
func (c *Call) Wait() error {
	<-c.done
	return c.err
}
