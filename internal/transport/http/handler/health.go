package handler

import "net/http"

// Health reports liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatusEnvelope{Status: "ok"})
}
