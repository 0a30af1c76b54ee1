package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/photoalbum/photoalbum-server/internal/api"
	"github.com/photoalbum/photoalbum-server/internal/config"
	"github.com/photoalbum/photoalbum-server/internal/logger"
	"github.com/photoalbum/photoalbum-server/internal/ratelimit"
	"github.com/photoalbum/photoalbum-server/internal/service"
	"github.com/photoalbum/photoalbum-server/internal/sse"
	"github.com/photoalbum/photoalbum-server/internal/validation"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Shutdown(ctx)
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	pages := do.MustInvoke[*PageServiceHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Pages:  pages.PageService,
		Search: do.MustInvoke[*service.SearchService](i),
		Index:  do.MustInvoke[*service.IndexService](i),
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Logger)

	handler := api.NewServer(services, indexHandle.PhotoIndex, sseHandle.Manager, sseHandler, v, api.Options{
		MaxUploadBytes: cfg.Page.MaxUploadBytes,
		SearchLimiter:  ratelimit.PerMinute(cfg.RateLimit.SearchPerMinute, cfg.RateLimit.SearchBurst),
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
