package page

import (
	"time"

	"github.com/photoalbum/photoalbum-server/internal/domain"
)

// DefaultAutoHide is how long a success message stays visible.
const DefaultAutoHide = 5 * time.Second

// AfterFunc schedules f to run once after d. The returned handle is never
// kept, so scheduled hides cannot be cancelled.
type AfterFunc func(d time.Duration, f func())

func realAfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// StatusReporter writes the page's single status message.
type StatusReporter struct {
	doc       *Document
	autoHide  time.Duration
	afterFunc AfterFunc
}

// Show replaces the status message and reveals it. Success messages schedule
// a hide that fires even if another message has been shown since.
func (r *StatusReporter) Show(text string, kind domain.StatusKind) {
	r.doc.writeStatus(domain.StatusMessage{Text: text, Kind: kind})

	if kind.AutoHides() {
		r.afterFunc(r.autoHide, r.doc.hideStatus)
	}
}
