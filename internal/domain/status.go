package domain

// StatusKind is the visual state of a status message.
type StatusKind string

// Status kinds. Only success messages hide themselves.
const (
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// AutoHides reports whether messages of this kind are hidden after a delay.
func (k StatusKind) AutoHides() bool {
	return k == StatusSuccess
}

// StatusMessage is the single transient message shown on a page.
type StatusMessage struct {
	Text   string     `json:"text"`
	Kind   StatusKind `json:"kind"`
	Hidden bool       `json:"hidden"`
}
