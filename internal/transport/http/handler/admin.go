package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/growloan-api/internal/application/admin"
	"github.com/growloan-api/internal/application/document"
	"github.com/growloan-api/internal/domain"
	"github.com/growloan-api/internal/pkg/validate"
)

// AdminHandler handles review, payment validation, pricing and reporting
// endpoints. All routes are behind RequireRole(admin).
type AdminHandler struct {
	svc  admin.Service
	docs document.Service
}

func NewAdminHandler(svc admin.Service, docs document.Service) *AdminHandler {
	return &AdminHandler{svc: svc, docs: docs}
}

func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.Config(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *AdminHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateAdminConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg, err := h.svc.UpdateConfig(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *AdminHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	loans, next, err := h.svc.ListLoans(r.Context(), r.URL.Query().Get("status"), limit, r.URL.Query().Get("cursor"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: loans, NextCursor: next})
}

func (h *AdminHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.GetLoan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *AdminHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.ApproveLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	l, err := h.svc.ApproveLoan(r.Context(), chi.URLParam(r, "id"), req)
	h.writeAction(w, l, err, "loan approved")
}

func (h *AdminHandler) RejectLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.RejectLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	l, err := h.svc.RejectLoan(r.Context(), chi.URLParam(r, "id"), req.Reason)
	h.writeAction(w, l, err, "loan rejected")
}

func (h *AdminHandler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.ApprovePayment(r.Context(), chi.URLParam(r, "id"))
	h.writeAction(w, l, err, "payment verified")
}

func (h *AdminHandler) RejectPayment(w http.ResponseWriter, r *http.Request) {
	var req domain.RejectLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	l, err := h.svc.RejectPayment(r.Context(), chi.URLParam(r, "id"), req.Reason)
	h.writeAction(w, l, err, "payment rejected")
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *AdminHandler) ExportLoans(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportLoans(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	filename := fmt.Sprintf("loans-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// UserDocuments lists a borrower's KYC documents with presigned links, for
// application review.
func (h *AdminHandler) UserDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PageEnvelope{Data: docs})
}

// writeAction renders loan-mutation results. A replayed action comes back
// as ErrAlreadyProcessed with the current record and must read as success,
// since the admin's intent already holds.
func (h *AdminHandler) writeAction(w http.ResponseWriter, l *domain.Loan, err error, msg string) {
	if errors.Is(err, domain.ErrAlreadyProcessed) {
		writeJSON(w, http.StatusOK, struct {
			Message string       `json:"message"`
			Loan    *domain.Loan `json:"loan"`
		}{Message: "already processed", Loan: l})
		return
	}
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string       `json:"message"`
		Loan    *domain.Loan `json:"loan"`
	}{Message: msg, Loan: l})
}
