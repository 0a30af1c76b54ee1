// Package search indexes photos by label with Bleve and answers keyword
// queries against the labels.
package search

import (
	"time"

	"github.com/photoalbum/photoalbum-server/internal/domain"
)

// Field names of the photo index. They follow the JSON names of
// domain.PhotoDocument.
const (
	fieldObjectKey = "objectKey"
	fieldBucket    = "bucket"
	fieldCreated   = "createdTimestamp"
	fieldLabels    = "labels"
)

// PhotoDocument is the indexed form of a photo.
type PhotoDocument struct {
	ID        string
	ObjectKey string
	Bucket    string
	Created   time.Time
	Labels    []string
}

// FromPhoto converts a domain document for indexing.
func FromPhoto(p domain.PhotoDocument) *PhotoDocument {
	return &PhotoDocument{
		ID:        p.ID(),
		ObjectKey: p.ObjectKey,
		Bucket:    p.Bucket,
		Created:   p.CreatedTimestamp,
		Labels:    p.Labels,
	}
}

// ToMap converts the document to the field names of the index mapping.
func (d *PhotoDocument) ToMap() map[string]any {
	labels := d.Labels
	if labels == nil {
		labels = []string{}
	}
	return map[string]any{
		fieldObjectKey: d.ObjectKey,
		fieldBucket:    d.Bucket,
		fieldCreated:   d.Created.UTC().Format(time.RFC3339),
		fieldLabels:    labels,
	}
}
