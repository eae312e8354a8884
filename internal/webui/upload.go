package webui

import (
	"errors"
	"mime/multipart"
	"net/http"
)

var errNoFile = errors.New("no file uploaded")

// parseUploadForm parses a multipart upload, capped at the configured size.
// The non-file fields end up in r.Form even when the file part is rejected.
func (webUI *WebUI) parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	limit := webUI.Config.Dataset.MaxUploadBytes
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.New("file is too large")
		}
		return err
	}
	return nil
}

// formFile returns the "file" part of a multipart upload.
func (webUI *WebUI) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, string, error) {
	if err := webUI.parseUploadForm(w, r); err != nil {
		return nil, "", err
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", errNoFile
	}
	if err != nil {
		return nil, "", err
	}
	return file, header.Filename, nil
}
