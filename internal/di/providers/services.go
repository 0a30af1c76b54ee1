package providers

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/samber/do/v2"

	"github.com/photoalbum/photoalbum-server/internal/config"
	"github.com/photoalbum/photoalbum-server/internal/labels"
	"github.com/photoalbum/photoalbum-server/internal/logger"
	"github.com/photoalbum/photoalbum-server/internal/page"
	"github.com/photoalbum/photoalbum-server/internal/searchclient"
	"github.com/photoalbum/photoalbum-server/internal/service"
	"github.com/photoalbum/photoalbum-server/internal/storage"
	"github.com/photoalbum/photoalbum-server/internal/validation"
)

// ProvideLabelDetector provides image label detection: Rekognition, or a
// no-op detector when detection is disabled.
func ProvideLabelDetector(i do.Injector) (labels.Detector, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Detection.Enabled {
		log.Info("Label detection disabled, indexing custom labels only")
		return labels.NopDetector{}, nil
	}

	awsCfg := do.MustInvoke[aws.Config](i)
	return labels.NewRekognitionDetector(rekognition.NewFromConfig(awsCfg)), nil
}

// ProvideIndexService provides the photo indexing service.
func ProvideIndexService(i do.Injector) (*service.IndexService, error) {
	store := do.MustInvoke[*storage.Store](i)
	detector := do.MustInvoke[labels.Detector](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIndexService(store, detector, indexHandle.PhotoIndex, v, log.Logger), nil
}

// ProvidePageApp provides the page behavior shared by every page session.
// Pages search the local index in process unless an external search
// endpoint is configured.
func ProvidePageApp(i do.Injector) (*page.App, error) {
	cfg := do.MustInvoke[*config.Config](i)
	store := do.MustInvoke[*storage.Store](i)
	log := do.MustInvoke[*logger.Logger](i)

	var searcher page.Searcher
	if cfg.UsesRemotePageSearch() {
		log.Info("Page search endpoint", "url", cfg.Page.SearchEndpoint)
		searcher = searchclient.New(cfg.Page.SearchEndpoint, nil, log.Logger)
	} else {
		searcher = service.NewPageSearcher(do.MustInvoke[*service.SearchService](i))
	}

	return page.NewApp(page.Config{
		Searcher: searcher,
		Uploader: store,
		Logger:   log.Logger,
		AutoHide: cfg.Page.StatusAutoHide,
	}), nil
}

// PageServiceHandle wraps the page service with shutdown capability.
type PageServiceHandle struct {
	*service.PageService
}

// Shutdown implements do.Shutdownable.
func (h *PageServiceHandle) Shutdown() error {
	h.CloseAll()
	return nil
}

// ProvidePageService provides the page session service.
func ProvidePageService(i do.Injector) (*PageServiceHandle, error) {
	app := do.MustInvoke[*page.App](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &PageServiceHandle{
		PageService: service.NewPageService(app, sseHandle.Manager, log.Logger),
	}, nil
}
