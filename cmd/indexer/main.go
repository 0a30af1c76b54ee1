// Package main provides the Lambda entry point that indexes photos from
// S3 object-created notifications.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/samber/do/v2"

	"github.com/photoalbum/photoalbum-server/internal/di"
	"github.com/photoalbum/photoalbum-server/internal/logger"
	"github.com/photoalbum/photoalbum-server/internal/service"
)

// handler indexes every record of one notification. It fails the
// invocation when any record failed so the notification is retried;
// indexing is keyed by bucket and key, so records that already succeeded
// are simply rewritten.
type handler struct {
	index *service.IndexService
	log   *logger.Logger
}

func (h *handler) handle(ctx context.Context, event events.S3Event) (*service.IndexReport, error) {
	report := h.index.HandleS3Event(ctx, event)

	h.log.WithField("records", len(event.Records)).Info("Notification processed",
		"indexed", len(report.Indexed),
		"failed", report.Failed,
	)

	if report.Failed > 0 {
		return report, fmt.Errorf("%d of %d records failed to index", report.Failed, len(event.Records))
	}
	return report, nil
}

func main() {
	injector := di.NewIndexerContainer()

	indexService, err := do.Invoke[*service.IndexService](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap indexer: %v\n", err)
		os.Exit(1)
	}

	h := &handler{
		index: indexService,
		log:   do.MustInvoke[*logger.Logger](injector),
	}

	lambda.StartWithOptions(h.handle, lambda.WithEnableSIGTERM(func() {
		if err := injector.Shutdown(); err != nil {
			h.log.WithError(err).Error("Shutdown error")
		}
	}))
}
