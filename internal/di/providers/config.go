// Package providers contains dependency injection providers for the photo album server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/photoalbum/photoalbum-server/internal/config"
	"github.com/photoalbum/photoalbum-server/internal/logger"
	"github.com/photoalbum/photoalbum-server/internal/validation"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting photo album server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"bucket", cfg.Storage.Bucket,
		"index_path", cfg.Index.Path,
	)

	return log, nil
}

// ProvideValidator provides the struct validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
