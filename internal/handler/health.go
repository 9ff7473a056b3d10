package handler

import "net/http"

// Health handles GET /v1/healthz. It reports process liveness only; it does
// not touch the database.
func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
