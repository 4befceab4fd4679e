package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/growloan-api/internal/application/document"
	"github.com/growloan-api/internal/transport/http/middleware"
)

// DocumentHandler handles KYC document upload and listing.
type DocumentHandler struct {
	svc document.Service
}

func NewDocumentHandler(svc document.Service) *DocumentHandler { return &DocumentHandler{svc: svc} }

// Upload accepts a multipart form with a "file" field; the document
// category comes from the URL.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(12 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer f.Close()

	doc, err := h.svc.Upload(r.Context(), document.UploadRequest{
		UserID:   claims.UserID,
		Category: chi.URLParam(r, "category"),
		Filename: header.Filename,
		Body:     f,
		Size:     header.Size,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// UploadBase64 accepts {"file_name": ..., "base64": ...}.
func (h *DocumentHandler) UploadBase64(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var body struct {
		FileName string `json:"file_name"`
		Base64   string `json:"base64"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doc, err := h.svc.Upload(r.Context(), document.UploadRequest{
		UserID:     claims.UserID,
		Category:   chi.URLParam(r, "category"),
		Filename:   body.FileName,
		Base64Data: body.Base64,
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	docs, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: docs})
}
