package handler

import (
	"encoding/json"
	"net/http"

	"github.com/estate-leads-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CodeSentEnvelope acknowledges an issued code. Code is only set outside production.
type CodeSentEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AuthEnvelope wraps verify and registration responses.
type AuthEnvelope struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type AdminAuthEnvelope struct {
	User    *domain.User `json:"user"`
	IsAdmin bool         `json:"isAdmin"`
	Token   string       `json:"token"`
}

type UserEnvelope struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message,omitempty"`
}

type UsersEnvelope struct {
	Users []domain.User `json:"users"`
}

type AgentsEnvelope struct {
	Agents []domain.User `json:"agents"`
}

type RequestEnvelope struct {
	Request interface{} `json:"request"`
}

type RequestsEnvelope struct {
	Requests interface{} `json:"requests"`
}

type NotificationEnvelope struct {
	Notification *domain.Notification `json:"notification"`
	Message      string               `json:"message,omitempty"`
}

type NotificationsEnvelope struct {
	Notifications []domain.Notification `json:"notifications"`
}

type CountEnvelope struct {
	Count int `json:"count"`
}

type StatusEnvelope struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// decodeJSON reads the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
