package api

import (
	"net"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/photoalbum/photoalbum-server/internal/errors"
)

// rateLimitSearch is a huma middleware limiting searches per client IP.
// Returns 429 Too Many Requests when the limit is exceeded.
func (s *Server) rateLimitSearch(ctx huma.Context, next func(huma.Context)) {
	if s.opts.SearchLimiter == nil {
		next(ctx)
		return
	}

	key := clientIP(ctx.RemoteAddr())
	if !s.opts.SearchLimiter.Allow(key) {
		s.logger.Warn("Rate limit exceeded",
			"ip", key,
			"path", ctx.URL().Path,
		)
		limited := domainerrors.TooManyRequests("Too many requests. Please try again later.")
		_ = huma.WriteErr(s.api, ctx, limited.HTTPStatus(), limited.Message, limited) //nolint:errcheck // Client may be gone
		return
	}

	next(ctx)
}

// clientIP strips the port from a remote address. RealIP has already
// replaced it with the forwarded client address when one was sent.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
