package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/memodesk/pkg/filestore"
)

type uploadResult struct {
	Ref string `json:"ref"`
	URL string `json:"url"`
}

// uploadFile stores the multipart "file" part and returns its reference.
func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	if _, err := s.app.Data.CurrentIdentity(r.Context()); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	f, fh, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "multipart part \"file\" is required")
		return
	}
	defer f.Close()

	ref, err := s.app.Files.Upload(r.Context(), fh.Filename, f)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResult{Ref: ref, URL: s.app.Files.URLFor(ref)})
}

func (s *Server) downloadFile(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if err := filestore.Validate(ref); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	rc, err := s.app.Files.Open(r.Context(), ref)
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "file not found")
		return
	}
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	defer rc.Close()

	ctype := mime.TypeByExtension(path.Ext(ref))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("file download interrupted", "ref", ref, "error", err)
	}
}
