package handlers

import (
	"net/http"

	"github.com/hookinbox/hookinbox/internal/httputil"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	inbox Inbox
}

func NewHealthHandler(inbox Inbox) *HealthHandler {
	return &HealthHandler{inbox: inbox}
}

// Healthz is the liveness probe. It never touches the store.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Readyz reports whether the backing store is reachable.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.inbox.Healthy(r.Context()); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
