package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/register/internal/core"
)

// handleImport merges an uploaded workbook or CSV file (multipart field
// "file") into the registry.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	name, data, err := s.readUpload(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}

	result, err := s.service.ImportBatch(withRequestMetadata(r), name, data)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePreviewImport reports what an import would do without writing.
func (s *Server) handlePreviewImport(w http.ResponseWriter, r *http.Request) {
	name, data, err := s.readUpload(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}

	preview, err := s.service.PreviewImport(r.Context(), name, data)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// handleImportStatus reports the import limiter state.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ImportStatus())
}

// readUpload extracts the "file" part of a multipart form, bounded by the
// service's maximum file size.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	maxSize := s.service.MaxFileSize()
	// Leave room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return "", nil, core.ErrFileTooLarge
		}
		return "", nil, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, core.ErrNoFile
	}
	defer file.Close()

	data, err := core.ReadUpload(file, maxSize)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}
