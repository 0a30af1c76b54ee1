// Package storage reads and writes photos in an S3 bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/photoalbum/photoalbum-server/internal/domain"
)

// ErrObjectNotFound reports that the bucket holds no object under the key.
var ErrObjectNotFound = errors.New("object not found")

// IsNotFound reports whether err means the object does not exist, as
// opposed to a denied or failed request.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// NewClient builds an S3 client from cfg. Path-style addressing is used
// whenever cfg carries a custom endpoint, since local S3-compatible stores
// rarely resolve bucket subdomains.
func NewClient(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
	base := func(o *s3.Options) {
		if cfg.BaseEndpoint != nil && *cfg.BaseEndpoint != "" {
			o.UsePathStyle = true
		}
		// Plain PUTs only; no trailing checksums third-party stores may reject.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	}
	return s3.NewFromConfig(cfg, append([]func(*s3.Options){base}, optFns...)...)
}

// Store writes uploads to one bucket and reads object metadata from any.
type Store struct {
	client S3API
	bucket string
}

// New creates a store writing to bucket.
func New(client S3API, bucket string) *Store {
	return &Store{client: client, bucket: bucket}
}

// Bucket returns the upload bucket.
func (s *Store) Bucket() string {
	return s.bucket
}

// PutObject writes obj under its key, replacing any object with that key.
// Metadata entries are sent as x-amz-meta-* headers.
func (s *Store) PutObject(ctx context.Context, obj domain.Object) error {
	input := &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(obj.Key),
		Body:     bytes.NewReader(obj.Body),
		Metadata: obj.Metadata,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, obj.Key, err)
	}
	return nil
}

// ObjectInfo is what the indexer needs to know about a stored photo.
type ObjectInfo struct {
	Bucket       string
	Key          string
	ContentType  string
	Size         int64
	LastModified time.Time
	// Metadata holds user metadata with lowercased keys.
	Metadata map[string]string
}

// HeadObject fetches the metadata of bucket/key without its body.
func (s *Store) HeadObject(ctx context.Context, bucket, key string) (*ObjectInfo, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("head s3://%s/%s: %w: %w", bucket, key, ErrObjectNotFound, err)
		}
		return nil, fmt.Errorf("head s3://%s/%s: %w", bucket, key, err)
	}

	info := &ObjectInfo{
		Bucket:   bucket,
		Key:      key,
		Metadata: make(map[string]string, len(out.Metadata)),
	}
	if out.ContentType != nil {
		info.ContentType = *out.ContentType
	}
	if out.ContentLength != nil {
		info.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	for k, v := range out.Metadata {
		info.Metadata[strings.ToLower(k)] = v
	}

	return info, nil
}

// CustomLabels returns the labels stored with the object at upload time.
func (i *ObjectInfo) CustomLabels() []string {
	return domain.ParseLabels(i.Metadata[strings.ToLower(domain.MetadataCustomLabels)])
}
