package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// SessionChecker reports whether a LinkedIn session cookie is configured.
type SessionChecker interface {
	Has() bool
}

// Handler serves liveness, readiness, and session-status probes.
type Handler struct {
	ready    atomic.Bool
	sessions SessionChecker
}

type healthResponse struct {
	Status     string `json:"status"`
	HasSession bool   `json:"has_session"`
}

// New returns a health handler instance.
func New(sessions SessionChecker) *Handler {
	return &Handler{sessions: sessions}
}

// SetReady marks the handler as ready.
func (h *Handler) SetReady() {
	h.ready.Store(true)
}

// SetNotReady marks the handler as not ready.
func (h *Handler) SetNotReady() {
	h.ready.Store(false)
}

// Health reports service status and whether a session cookie is present.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	hasSession := h.sessions != nil && h.sessions.Has()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", HasSession: hasSession})
}

// Readyz handles readiness probes.
func (h *Handler) Readyz(w http.ResponseWriter, _ *http.Request) {
	if h.ready.Load() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready"))
}
