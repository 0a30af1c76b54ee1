package api

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/photoalbum/photoalbum-server/internal/http/response"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var static embed.FS

var indexTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

// indexPageData contains data for the page template.
type indexPageData struct {
	PageID string
}

// handleIndexPage opens a page session and serves the page bound to it.
// GET /
func (s *Server) handleIndexPage(w http.ResponseWriter, _ *http.Request) {
	pageID, _, err := s.services.Pages.Open()
	if err != nil {
		s.logger.Error("Failed to open page", "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, indexPageData{PageID: pageID}); err != nil {
		s.logger.Error("Failed to render page", "page_id", pageID, "error", err)
		_ = s.services.Pages.Close(pageID) //nolint:errcheck // Best effort
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", CacheNoStore)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes()) //nolint:errcheck // Client may be gone
}

// staticHandler serves the page script and stylesheet.
// GET /static/*
func staticHandler() http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	files := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", CacheOneDay)
		files.ServeHTTP(w, r)
	})
}
