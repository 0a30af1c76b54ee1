package providers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/samber/do/v2"

	"github.com/photoalbum/photoalbum-server/internal/awsutil"
	"github.com/photoalbum/photoalbum-server/internal/config"
	"github.com/photoalbum/photoalbum-server/internal/logger"
	"github.com/photoalbum/photoalbum-server/internal/storage"
)

// ProvideAWSConfig provides the shared AWS configuration.
func ProvideAWSConfig(i do.Injector) (aws.Config, error) {
	cfg := do.MustInvoke[*config.Config](i)

	awsCfg, err := awsutil.Load(context.Background(), cfg.Storage.Region, cfg.Storage.Endpoint)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// ProvideObjectStore provides the S3 store for the configured bucket.
func ProvideObjectStore(i do.Injector) (*storage.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	awsCfg := do.MustInvoke[aws.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	store := storage.New(storage.NewClient(awsCfg), cfg.Storage.Bucket)

	log.Info("Object storage initialized",
		"bucket", cfg.Storage.Bucket,
		"region", cfg.Storage.Region,
		"endpoint", cfg.Storage.Endpoint,
	)

	return store, nil
}

// ProvideURLBuilder provides the builder of public photo URLs.
func ProvideURLBuilder(i do.Injector) (storage.URLBuilder, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return storage.NewURLBuilder(cfg.Storage.Bucket, cfg.Storage.PublicURL), nil
}
