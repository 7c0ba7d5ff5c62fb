package handler

import (
	"net/http"

	"github.com/estate-leads-api/internal/application/notification"
	"github.com/go-chi/chi/v5"
)

// NotificationHandler serves the admin notification feed.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	ns, err := h.svc.ListAll(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NotificationsEnvelope{Notifications: nonNil(ns)})
}

func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	ns, err := h.svc.ListUnread(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NotificationsEnvelope{Notifications: nonNil(ns)})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UnreadCount(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountEnvelope{Count: n})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.MarkAsRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NotificationEnvelope{Notification: n, Message: "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.MarkAllAsRead(r.Context()); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "All notifications marked as read"})
}
