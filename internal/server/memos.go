package server

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/memodesk/internal/dataaccess"
	"github.com/aretw0/memodesk/internal/memo"
	"github.com/aretw0/memodesk/internal/schemaform"
)

// MaxUploadBytes caps multipart bodies.
const MaxUploadBytes = 32 << 20

func (s *Server) getMemo(w http.ResponseWriter, r *http.Request) {
	it, err := s.app.Data.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// createMemo accepts either a JSON payload or a multipart form whose
// "attachments" parts are uploaded before the memo is stored.
func (s *Server) createMemo(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	it, err := s.app.Data.Submit(r.Context(), payload)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) updateMemo(w http.ResponseWriter, r *http.Request) {
	var p dataaccess.Patch
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	it, err := s.app.Data.UpdateItem(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

// appendReview adds a review. A missing date is stamped with the current time.
func (s *Server) appendReview(w http.ResponseWriter, r *http.Request) {
	var rv memo.Review
	if err := decodeJSON(r, &rv); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if rv.Date.IsZero() {
		rv.Date = time.Now().UTC()
	}
	it, err := s.app.Data.AppendReview(r.Context(), chi.URLParam(r, "id"), rv)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func readPayload(w http.ResponseWriter, r *http.Request) (schemaform.Payload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var raw map[string]any
		if err := decodeJSON(r, &raw); err != nil {
			return nil, err
		}
		return jsonPayload(raw)
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		return nil, fmt.Errorf("multipart: %w", err)
	}
	payload := schemaform.Payload{}
	for key, values := range r.MultipartForm.Value {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}
	var atts []memo.Attachment
	for _, fh := range r.MultipartForm.File["attachments"] {
		atts = append(atts, memo.PendingAttachment(memo.PendingFile{
			Name: fh.Filename,
			Size: fh.Size,
			Open: openPart(fh),
		}))
	}
	payload["attachments"] = atts
	return payload, nil
}

func openPart(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

// jsonPayload converts a decoded JSON object into a form payload. Attachment
// entries must be stored file references.
func jsonPayload(raw map[string]any) (schemaform.Payload, error) {
	payload := schemaform.Payload{}
	for key, v := range raw {
		if key != "attachments" {
			payload[key] = v
			continue
		}
		list, ok := v.([]any)
		if v != nil && !ok {
			return nil, fmt.Errorf("attachments must be a list of file references")
		}
		atts := make([]memo.Attachment, 0, len(list))
		for _, e := range list {
			ref, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("attachments must be a list of file references")
			}
			atts = append(atts, memo.RefAttachment(ref))
		}
		payload[key] = atts
	}
	return payload, nil
}
