package handler

import (
	"log/slog"
	"net/http"

	"github.com/estate-leads-api/internal/application/auth"
	"github.com/estate-leads-api/internal/domain"
	"github.com/estate-leads-api/internal/pkg/validate"
	"github.com/estate-leads-api/internal/transport/http/middleware"
)

// codeSentMessage describes where the code went for the given delivery
// channel ("whatsapp", "sms" or "log").
func codeSentMessage(channel string) string {
	switch channel {
	case "whatsapp":
		return "Verification code sent to WhatsApp"
	case "sms":
		return "Verification code sent by SMS"
	default:
		return "Verification code generated"
	}
}

// AuthHandler handles phone verification and registration endpoints.
type AuthHandler struct {
	svc       auth.Service
	echoCodes bool
	channel   string
}

// NewAuthHandler builds the handler. With echoCodes set, issued codes are
// returned in the response body for local testing. channel is the delivery
// channel of the configured sender.
func NewAuthHandler(svc auth.Service, echoCodes bool, channel string) *AuthHandler {
	return &AuthHandler{svc: svc, echoCodes: echoCodes, channel: channel}
}

func (h *AuthHandler) codeSent(w http.ResponseWriter, code string) {
	out := CodeSentEnvelope{Message: codeSentMessage(h.channel)}
	if h.echoCodes {
		out.Code = code
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AuthHandler) SendVerification(w http.ResponseWriter, r *http.Request) {
	var req domain.SendVerificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Phone number is required")
		return
	}
	code, err := h.svc.SendVerificationCode(r.Context(), req.PhoneNumber)
	if err != nil {
		httpError(w, err)
		return
	}
	h.codeSent(w, code)
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Phone number and code are required")
		return
	}
	res, err := h.svc.VerifyCode(r.Context(), req.PhoneNumber, req.Code, bool(req.Agent))
	if err != nil {
		httpError(w, err)
		return
	}
	if !res.Valid {
		writeError(w, http.StatusUnauthorized, "Invalid verification code")
		return
	}
	if res.User == nil {
		slog.Error("valid verification code resolved no user", "phone", req.PhoneNumber)
		writeError(w, http.StatusInternalServerError, "User creation failed")
		return
	}
	h.respondWithToken(w, res.User)
}

func (h *AuthHandler) CompleteRegistration(w http.ResponseWriter, r *http.Request) {
	var req domain.CompleteRegistrationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "User ID and name are required")
		return
	}
	u, err := h.svc.CompleteRegistration(r.Context(), req.UserID, req.Name, req.IsAgent)
	if err != nil {
		httpError(w, err)
		return
	}
	h.respondWithToken(w, u)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, u *domain.User) {
	token, err := h.svc.GenerateToken(u)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{User: u, Token: token})
}

// CurrentUser returns the user loaded by Authenticate.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: p.User})
}
