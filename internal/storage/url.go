package storage

import "github.com/photoalbum/photoalbum-server/internal/domain"

// URLBuilder builds the public URLs returned in search results.
type URLBuilder struct {
	bucket    string
	publicURL string
}

// NewURLBuilder returns a builder that serves bucket from publicURL. Other
// buckets, and bucket itself when publicURL is empty, use the virtual-hosted
// S3 URL.
func NewURLBuilder(bucket, publicURL string) URLBuilder {
	return URLBuilder{bucket: bucket, publicURL: publicURL}
}

// URL returns the public URL of bucket/key.
func (b URLBuilder) URL(bucket, key string) string {
	base := domain.BucketURL(bucket)
	if bucket == b.bucket && b.publicURL != "" {
		base = b.publicURL
	}
	return domain.ObjectURL(base, key)
}
