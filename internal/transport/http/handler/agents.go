package handler

import (
	"net/http"

	"github.com/estate-leads-api/internal/application/estate"
	"github.com/estate-leads-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// AgentHandler serves the agent views of estate requests.
type AgentHandler struct {
	svc estate.Service
}

func NewAgentHandler(svc estate.Service) *AgentHandler { return &AgentHandler{svc: svc} }

func (h *AgentHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.ListWithSubmitters(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequestsEnvelope{Requests: nonNil(reqs)})
}

// GetRequest returns one request and records the view for admins.
func (h *AgentHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	er, err := h.svc.GetForAgent(r.Context(), chi.URLParam(r, "id"), p.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RequestEnvelope{Request: er})
}
