package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/photoalbum/photoalbum-server/internal/domain"
	"github.com/photoalbum/photoalbum-server/internal/errors"
	"github.com/photoalbum/photoalbum-server/internal/labels"
	"github.com/photoalbum/photoalbum-server/internal/search"
	"github.com/photoalbum/photoalbum-server/internal/storage"
	"github.com/photoalbum/photoalbum-server/internal/validation"
)

// ObjectHeader reads stored object metadata.
type ObjectHeader interface {
	HeadObject(ctx context.Context, bucket, key string) (*storage.ObjectInfo, error)
}

// PhotoIndexer writes photo documents to the index.
type PhotoIndexer interface {
	IndexPhoto(doc *search.PhotoDocument) error
	DeletePhoto(id string) error
}

// ObjectRef names one stored object from a storage notification.
type ObjectRef struct {
	Bucket string `json:"bucket" validate:"required,min=3,max=63"`
	Key    string `json:"key" validate:"objectkey"`
}

// IndexReport summarizes one notification.
type IndexReport struct {
	Indexed []domain.PhotoDocument `json:"indexed"`
	Removed int                    `json:"removed"`
	Failed  int                    `json:"failed"`
}

// IndexService indexes newly stored photos: the labels given at upload time
// plus whatever the detector sees in the image.
type IndexService struct {
	objects   ObjectHeader
	detector  labels.Detector
	index     PhotoIndexer
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewIndexService creates a new index service.
func NewIndexService(objects ObjectHeader, detector labels.Detector, index PhotoIndexer, v *validation.Validator, logger *slog.Logger) *IndexService {
	return &IndexService{
		objects:   objects,
		detector:  detector,
		index:     index,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleS3Event indexes every record of a storage notification. Created
// objects are indexed and removed objects dropped from the index. A failed
// record is logged and skipped; the rest are still processed.
func (s *IndexService) HandleS3Event(ctx context.Context, event events.S3Event) *IndexReport {
	report := &IndexReport{Indexed: []domain.PhotoDocument{}}

	for _, record := range event.Records {
		ref, err := RefFromRecord(record)
		if err != nil {
			s.logger.Error("invalid storage record", "key", record.S3.Object.Key, "error", err)
			report.Failed++
			continue
		}

		if isRemoval(record) {
			if err := s.RemoveObject(ref); err != nil {
				s.logger.Error("remove photo failed", "bucket", ref.Bucket, "key", ref.Key, "error", err)
				report.Failed++
				continue
			}
			report.Removed++
			continue
		}

		doc, err := s.IndexObject(ctx, ref)
		if err != nil {
			s.logger.Error("index photo failed", "bucket", ref.Bucket, "key", ref.Key, "error", err)
			report.Failed++
			continue
		}
		report.Indexed = append(report.Indexed, *doc)
	}

	return report
}

func isRemoval(record events.S3EventRecord) bool {
	return strings.HasPrefix(record.EventName, "ObjectRemoved:")
}

// RefFromRecord extracts the object named by a notification record. Keys
// arrive form-encoded: '+' is a space and other bytes are percent-escaped.
func RefFromRecord(record events.S3EventRecord) (ObjectRef, error) {
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		return ObjectRef{}, errors.Validation("object key is not valid form encoding")
	}
	return ObjectRef{Bucket: record.S3.Bucket.Name, Key: key}, nil
}

// IndexObject builds and stores the index document for one object.
func (s *IndexService) IndexObject(ctx context.Context, ref ObjectRef) (*domain.PhotoDocument, error) {
	if err := s.validator.Validate(ref); err != nil {
		return nil, err
	}

	info, err := s.objects.HeadObject(ctx, ref.Bucket, ref.Key)
	if err != nil {
		code := errors.CodeRequest
		if storage.IsNotFound(err) {
			code = errors.CodeNotFound
		}
		return nil, errors.Wrap(err, code, "read object metadata")
	}

	detected, err := s.detector.DetectLabels(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeRequest, "detect labels")
	}

	created := info.LastModified
	if created.IsZero() {
		created = s.now()
	}

	doc := domain.PhotoDocument{
		ObjectKey:        ref.Key,
		Bucket:           ref.Bucket,
		CreatedTimestamp: created.UTC(),
		Labels:           domain.MergeLabels(info.CustomLabels(), detected),
	}

	if err := s.index.IndexPhoto(search.FromPhoto(doc)); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "index photo")
	}

	s.logger.Info("photo indexed",
		"bucket", doc.Bucket,
		"key", doc.ObjectKey,
		"labels", doc.Labels,
	)
	return &doc, nil
}

// RemoveObject drops the index document of a deleted object. Removing an
// object that was never indexed is not an error.
func (s *IndexService) RemoveObject(ref ObjectRef) error {
	if err := s.validator.Validate(ref); err != nil {
		return err
	}

	id := domain.PhotoDocument{Bucket: ref.Bucket, ObjectKey: ref.Key}.ID()
	if err := s.index.DeletePhoto(id); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "remove photo")
	}

	s.logger.Info("photo removed", "bucket", ref.Bucket, "key", ref.Key)
	return nil
}
