package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/photoalbum/photoalbum-server/internal/logger"
	"github.com/photoalbum/photoalbum-server/internal/service"
	"github.com/photoalbum/photoalbum-server/internal/sse"
)

// pageJanitorInterval is how often idle page sessions are looked for.
const pageJanitorInterval = 10 * time.Minute

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// PageJanitor closes page sessions whose browser went away without
// closing them.
type PageJanitor struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *PageJanitor) Shutdown() error {
	j.cancel()
	return nil
}

// ProvidePageJanitor starts the idle page janitor.
func ProvidePageJanitor(i do.Injector) (*PageJanitor, error) {
	pages := do.MustInvoke[*PageServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	go pages.RunJanitor(ctx, pageJanitorInterval, service.DefaultPageIdleTTL)

	log.Info("Page janitor started",
		"interval", pageJanitorInterval,
		"idle_ttl", service.DefaultPageIdleTTL,
	)

	return &PageJanitor{cancel: cancel}, nil
}
