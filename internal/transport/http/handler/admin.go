package handler

import (
	"net/http"

	"github.com/estate-leads-api/internal/application/admin"
	"github.com/estate-leads-api/internal/application/auth"
	"github.com/estate-leads-api/internal/application/estate"
	"github.com/estate-leads-api/internal/domain"
	"github.com/estate-leads-api/internal/pkg/validate"
	"github.com/go-chi/chi/v5"
)

// AdminHandler handles admin login, user management and request deletion.
type AdminHandler struct {
	auth   *AuthHandler
	admin  admin.Service
	estate estate.Service
}

func NewAdminHandler(authSvc auth.Service, adminSvc admin.Service, estateSvc estate.Service, echoCodes bool, channel string) *AdminHandler {
	return &AdminHandler{
		auth:   NewAuthHandler(authSvc, echoCodes, channel),
		admin:  adminSvc,
		estate: estateSvc,
	}
}

func (h *AdminHandler) SendVerification(w http.ResponseWriter, r *http.Request) {
	var req domain.SendVerificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Phone number is required")
		return
	}
	code, err := h.auth.svc.SendAdminVerification(r.Context(), req.PhoneNumber)
	if err != nil {
		httpError(w, err)
		return
	}
	h.auth.codeSent(w, code)
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.AdminAuthRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Phone number and code are required")
		return
	}
	u, token, err := h.auth.svc.AdminLogin(r.Context(), req.PhoneNumber, req.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AdminAuthEnvelope{User: u, IsAdmin: true, Token: token})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UsersEnvelope{Users: nonNil(users)})
}

func (h *AdminHandler) ListPendingAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := h.admin.ListPendingAgents(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AgentsEnvelope{Agents: nonNil(agents)})
}

func (h *AdminHandler) ApproveAgent(w http.ResponseWriter, r *http.Request) {
	u, err := h.admin.ApproveAgent(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u, Message: "Agent approved successfully"})
}

func (h *AdminHandler) SetAgentRole(w http.ResponseWriter, r *http.Request) {
	var req domain.SetAgentRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "isAgent must be a boolean")
		return
	}
	u, err := h.admin.SetAgentRole(r.Context(), chi.URLParam(r, "userId"), *req.IsAgent)
	if err != nil {
		httpError(w, err)
		return
	}
	msg := "User is no longer an agent"
	if *req.IsAgent {
		msg = "User is now an approved agent"
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: u, Message: msg})
}

func (h *AdminHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.estate.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Request deleted successfully"})
}
