package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/estate-leads-api/internal/domain"
)

var statusBySentinel = []struct {
	err    error
	status int
}{
	{domain.ErrBadRequest, http.StatusBadRequest},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
}

// httpError maps a service error to its status code. Unrecognised errors
// become a generic 500 and are only logged.
func httpError(w http.ResponseWriter, err error) {
	for _, m := range statusBySentinel {
		if errors.Is(err, m.err) {
			writeError(w, m.status, publicMessage(err, m.err))
			return
		}
	}
	slog.Error("unhandled service error", "err", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// publicMessage drops the ": <sentinel>" suffix added by wrapping.
func publicMessage(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
