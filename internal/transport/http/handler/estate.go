package handler

import (
	"net/http"

	"github.com/estate-leads-api/internal/application/estate"
	"github.com/estate-leads-api/internal/domain"
	"github.com/estate-leads-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// EstateHandler handles estate request endpoints for regular users.
type EstateHandler struct {
	svc estate.Service
}

func NewEstateHandler(svc estate.Service) *EstateHandler { return &EstateHandler{svc: svc} }

func (h *EstateHandler) List(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.List(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequestsEnvelope{Requests: nonNil(reqs)})
}

func (h *EstateHandler) Get(w http.ResponseWriter, r *http.Request) {
	er, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequestEnvelope{Request: er})
}

func (h *EstateHandler) MyRequests(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	reqs, err := h.svc.ListByOwner(r.Context(), p.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequestsEnvelope{Requests: nonNil(reqs)})
}

func (h *EstateHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req domain.CreateEstateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PropertyType == "" || req.Location == "" || req.Budget == "" {
		writeError(w, http.StatusBadRequest, "Property type, location, and budget are required")
		return
	}
	er, err := h.svc.Create(r.Context(), p.UserID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, RequestEnvelope{Request: er})
}

func (h *EstateHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	er, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequestEnvelope{Request: er})
}
