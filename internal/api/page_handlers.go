package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/photoalbum/photoalbum-server/internal/domain"
	"github.com/photoalbum/photoalbum-server/internal/http/response"
	"github.com/photoalbum/photoalbum-server/internal/sse"
)

// uploadForm holds the text fields of a page upload.
type uploadForm struct {
	FileName string `form:"photo" validate:"omitempty,objectkey"`
	Label1   string `form:"label1" validate:"max=256"`
	Label2   string `form:"label2" validate:"max=256"`
}

// handlePageEvents streams the document changes of a page.
// GET /pages/{id}/events
func (s *Server) handlePageEvents(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "id")

	if _, err := s.services.Pages.Get(pageID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.sseHandler.ServePage(w, r, pageID, func() []sse.Event {
		events, err := s.services.Pages.Snapshot(pageID)
		if err != nil {
			s.logger.Warn("page snapshot failed", "page_id", pageID, "error", err)
			return nil
		}
		return events
	})
}

// handlePageSearch runs the page's search with the submitted query. The
// outcome reaches the browser on the event stream.
// POST /pages/{id}/search
func (s *Server) handlePageSearch(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Invalid search form", s.logger)
		return
	}

	if _, err := s.services.Pages.Search(r.Context(), pageID, r.PostFormValue("q")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Accepted(w, nil, s.logger)
}

// handlePageUpload runs the page's upload with the submitted file and labels.
// The outcome reaches the browser on the event stream.
// POST /pages/{id}/upload
func (s *Server) handlePageUpload(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "id")

	if r.ContentLength > s.opts.MaxUploadBytes {
		response.TooLarge(w, fmt.Sprintf("Upload exceeds %d bytes", s.opts.MaxUploadBytes), s.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.TooLarge(w, fmt.Sprintf("Upload exceeds %d bytes", tooLarge.Limit), s.logger)
			return
		}
		response.BadRequest(w, "Invalid upload form", s.logger)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // Temp file cleanup

	file, err := readUploadFile(r.MultipartForm.File["photo"])
	if err != nil {
		s.logger.Error("Failed to read upload", "page_id", pageID, "error", err)
		response.BadRequest(w, "Invalid upload file", s.logger)
		return
	}

	form := uploadForm{
		Label1: r.FormValue("label1"),
		Label2: r.FormValue("label2"),
	}
	if file != nil {
		form.FileName = file.Name
	}
	if err := s.validator.Validate(form); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if _, err := s.services.Pages.Upload(r.Context(), pageID, file, form.Label1, form.Label2); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Accepted(w, nil, s.logger)
}

// handleClosePage disposes a page session.
// DELETE /pages/{id}
func (s *Server) handleClosePage(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Pages.Close(chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// readUploadFile reads the first selected file. No file yields nil; the
// page reports that itself.
func readUploadFile(headers []*multipart.FileHeader) (*domain.File, error) {
	if len(headers) == 0 {
		return nil, nil
	}
	fh := headers[0]

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	return &domain.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
