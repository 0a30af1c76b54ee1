// Package domain holds the photo album's core types.
package domain

import (
	"net/url"
	"strings"
	"time"
)

// PhotoResult is one search hit as returned by the search endpoint.
// Labels may be nil when the endpoint omits the field.
type PhotoResult struct {
	URL    string   `json:"url"`
	Labels []string `json:"labels"`
}

// File is a selected upload file held in memory for the duration of one upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadRequest is a file plus up to two free-text labels.
type UploadRequest struct {
	File   File
	Label1 string
	Label2 string
}

// Object returns the object-store write for the upload: the file under its
// own name, with the composed labels as metadata.
func (r UploadRequest) Object() Object {
	return Object{
		Key:         ObjectKey(r.File.Name),
		ContentType: r.File.ContentType,
		Metadata: map[string]string{
			MetadataCustomLabels: ComposeLabels(r.Label1, r.Label2),
		},
		Body: r.File.Data,
	}
}

// ComposeLabels joins two optional labels with a comma. Empty labels are
// omitted and label2 never comes first. Both empty yields "".
func ComposeLabels(label1, label2 string) string {
	label1 = strings.TrimSpace(label1)
	label2 = strings.TrimSpace(label2)

	switch {
	case label1 != "" && label2 != "":
		return label1 + "," + label2
	case label1 != "":
		return label1
	default:
		return label2
	}
}

// ParseLabels splits a comma-joined label string into trimmed, lowercased
// labels, dropping empty entries.
func ParseLabels(s string) []string {
	labels := []string{}
	for part := range strings.SplitSeq(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}

// ObjectKey returns the storage key for an uploaded file: its original name.
// Two uploads with the same name address the same object.
func ObjectKey(fileName string) string {
	return fileName
}

// ObjectURL returns the upload target for key under a bucket endpoint,
// with the key percent-encoded as a single path segment.
func ObjectURL(bucketEndpoint, key string) string {
	return strings.TrimRight(bucketEndpoint, "/") + "/" + url.PathEscape(key)
}

// BucketURL returns the virtual-hosted public URL of an S3 bucket.
func BucketURL(bucket string) string {
	return "https://" + bucket + ".s3.amazonaws.com"
}

// PhotoDocument is the index entry for one stored photo.
type PhotoDocument struct {
	ObjectKey        string    `json:"objectKey"`
	Bucket           string    `json:"bucket"`
	CreatedTimestamp time.Time `json:"createdTimestamp"`
	Labels           []string  `json:"labels"`
}

// ID returns the index identifier. It is derived from bucket and key so that
// re-uploading an object replaces its entry.
func (d PhotoDocument) ID() string {
	return d.Bucket + "/" + d.ObjectKey
}

// MergeLabels concatenates label lists, dropping duplicates and keeping the
// first occurrence's position.
func MergeLabels(lists ...[]string) []string {
	seen := make(map[string]struct{})
	merged := []string{}
	for _, list := range lists {
		for _, l := range list {
			if l == "" {
				continue
			}
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			merged = append(merged, l)
		}
	}
	return merged
}

// MetadataCustomLabels is the user-metadata key carrying comma-joined labels.
// Object stores expose it as the x-amz-meta-customLabels header.
const MetadataCustomLabels = "customLabels"

// Object is a single object-store write.
type Object struct {
	Key         string
	ContentType string
	Metadata    map[string]string
	Body        []byte
}
