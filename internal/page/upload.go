package page

import (
	"context"

	"github.com/photoalbum/photoalbum-server/internal/domain"
	"github.com/photoalbum/photoalbum-server/internal/errors"
)

// Status texts used by the upload form.
const (
	StatusSelectFile   = "Please select a file to upload"
	StatusUploading    = "Uploading photo..."
	StatusUploaded     = "Photo uploaded successfully!"
	StatusUploadFailed = "Error uploading photo. Please try again."
)

// Upload stores the selected file under its own name with the composed
// labels as object metadata.
//
// Without a selected file an error status is shown and a validation error
// returned. On success the file input and both labels are cleared; on
// failure they are left as they were so the user can retry.
func (h *Handle) Upload(ctx context.Context) (*Call, error) {
	if h.Disposed() {
		return nil, errors.ErrDisposed
	}

	file, ok := h.doc.SelectedFile()
	if !ok {
		h.status.Show(StatusSelectFile, domain.StatusError)
		return nil, errors.Validation(StatusSelectFile)
	}

	label1, label2 := h.doc.Labels()
	obj := domain.UploadRequest{File: file, Label1: label1, Label2: label2}.Object()

	h.status.Show(StatusUploading, domain.StatusInfo)

	call := newCall()
	ctx = context.WithoutCancel(ctx)

	go func() {
		if err := h.app.uploader.PutObject(ctx, obj); err != nil {
			h.app.logger.Error("Upload failed", "error", err, "key", obj.Key)
			h.status.Show(StatusUploadFailed, domain.StatusError)
			call.settle(errors.Request("upload failed", err))
			return
		}

		h.app.logger.Info("Upload success", "key", obj.Key, "size", len(obj.Body))
		h.status.Show(StatusUploaded, domain.StatusSuccess)
		h.doc.clearUploadForm()
		call.settle(nil)
	}()

	return call, nil
}
