// Package di provides dependency injection configuration for the photo album server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/photoalbum/photoalbum-server/internal/config"
	"github.com/photoalbum/photoalbum-server/internal/di/providers"
	"github.com/photoalbum/photoalbum-server/internal/logger"
	"github.com/photoalbum/photoalbum-server/internal/service"
	"github.com/photoalbum/photoalbum-server/internal/storage"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// AWS and storage
	do.Provide(injector, providers.ProvideAWSConfig)
	do.Provide(injector, providers.ProvideObjectStore)
	do.Provide(injector, providers.ProvideURLBuilder)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideKeywordExtractor)
	do.Provide(injector, providers.ProvideSearchService)

	// Indexing
	do.Provide(injector, providers.ProvideLabelDetector)
	do.Provide(injector, providers.ProvideIndexService)

	// Pages
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvidePageApp)
	do.Provide(injector, providers.ProvidePageService)
	do.Provide(injector, providers.ProvidePageJanitor)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*storage.Store](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.IndexService](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.PageServiceHandle](injector)
	_ = do.MustInvoke[*providers.PageJanitor](injector)

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}

// NewIndexerContainer creates the container used by the storage
// notification handler. It has no pages and no HTTP server.
func NewIndexerContainer() *do.RootScope {
	injector := do.New()

	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAWSConfig)
	do.Provide(injector, providers.ProvideObjectStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideLabelDetector)
	do.Provide(injector, providers.ProvideIndexService)

	return injector
}
