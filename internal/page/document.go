// Package page implements the photo album page as a headless document model.
//
// A Document holds what the browser shows: the query input, the results
// container, the upload form and the status region. Invokers read the form
// state from it and write results and status back; every write is reported
// to the document's Listener so it can be mirrored to the browser.
package page

import (
	"sync"

	"github.com/photoalbum/photoalbum-server/internal/domain"
)

// ChangeKind identifies what part of the document changed.
type ChangeKind string

// Change kinds published to listeners.
const (
	ChangeResults     ChangeKind = "results"
	ChangeStatus      ChangeKind = "status"
	ChangeFormCleared ChangeKind = "form_cleared"
	ChangeAlert       ChangeKind = "alert"
)

// Change describes one document write.
type Change struct {
	Kind    ChangeKind
	Results ResultsView
	Status  domain.StatusMessage
	Alert   string
}

// Listener receives document changes. Listeners run under the document lock
// and must not call back into the document.
type Listener func(Change)

// Document is the page state for one browser page. All methods are safe for
// concurrent use; writes are last-writer-wins.
type Document struct {
	mu       sync.Mutex
	query    string
	results  ResultsView
	file     *domain.File
	label1   string
	label2   string
	status   domain.StatusMessage
	listener Listener
}

// NewDocument returns an empty document with a hidden status region.
func NewDocument() *Document {
	return &Document{
		status: domain.StatusMessage{Hidden: true},
	}
}

// SetListener replaces the change listener. A nil listener detaches.
func (d *Document) SetListener(l Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listener = l
}

// SetQuery sets the query input value.
func (d *Document) SetQuery(q string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.query = q
}

// Query returns the raw query input value.
func (d *Document) Query() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.query
}

// SelectFiles sets the file input. Only the first file is kept; selecting
// nothing clears the input.
func (d *Document) SelectFiles(files ...domain.File) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(files) == 0 {
		d.file = nil
		return
	}
	f := files[0]
	d.file = &f
}

// SelectedFile returns the selected file, if any.
func (d *Document) SelectedFile() (domain.File, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return domain.File{}, false
	}
	return *d.file, true
}

// SetLabels sets both label inputs.
func (d *Document) SetLabels(label1, label2 string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.label1 = label1
	d.label2 = label2
}

// Labels returns the raw label input values.
func (d *Document) Labels() (string, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.label1, d.label2
}

// Results returns what the results container currently shows.
func (d *Document) Results() ResultsView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.results
}

// Status returns the current status message.
func (d *Document) Status() domain.StatusMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Document) replaceResults(v ResultsView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = v
	d.notify(Change{Kind: ChangeResults, Results: v})
}

func (d *Document) writeStatus(msg domain.StatusMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = msg
	d.notify(Change{Kind: ChangeStatus, Status: msg})
}

// hideStatus hides whatever message is currently shown.
func (d *Document) hideStatus() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.Hidden = true
	d.notify(Change{Kind: ChangeStatus, Status: d.status})
}

func (d *Document) clearUploadForm() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.file = nil
	d.label1 = ""
	d.label2 = ""
	d.notify(Change{Kind: ChangeFormCleared})
}

func (d *Document) alert(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notify(Change{Kind: ChangeAlert, Alert: msg})
}

func (d *Document) notify(c Change) {
	if d.listener != nil {
		d.listener(c)
	}
}
