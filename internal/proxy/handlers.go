package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/talentwire/linkedin-mcp-bridge/internal/audit"
	"github.com/talentwire/linkedin-mcp-bridge/internal/constants"
	"github.com/talentwire/linkedin-mcp-bridge/internal/linkedin"
)

// Envelope is the fixed JSON response shape for /api routes.
type Envelope struct {
	// Success reports whether the operation completed.
	Success bool `json:"success"`
	// Data carries the decoded tool payload.
	Data any `json:"data,omitempty"`
	// Error is a user-visible message on failure.
	Error string `json:"error,omitempty"`
}

type urlRequest struct {
	URL string `json:"url"`
}

type postsRequest struct {
	URL   string `json:"url"`
	Limit *int   `json:"limit,omitempty"`
}

type sessionRequest struct {
	LiAt string `json:"li_at"`
}

func (h *Handler) handlePersonProfile(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.respondTool(w, r, constants.ToolPersonProfile, map[string]any{"url": req.URL}, func(b Backend) (any, error) {
		return b.GetPersonProfile(r.Context(), req.URL)
	})
}

func (h *Handler) handleCompanyProfile(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.respondTool(w, r, constants.ToolCompanyProfile, map[string]any{"url": req.URL}, func(b Backend) (any, error) {
		return b.GetCompanyProfile(r.Context(), req.URL)
	})
}

func (h *Handler) handleCompanyPosts(w http.ResponseWriter, r *http.Request) {
	var req postsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	args := map[string]any{"url": req.URL}
	if req.Limit != nil {
		args["limit"] = *req.Limit
	}
	h.respondTool(w, r, constants.ToolCompanyPosts, args, func(b Backend) (any, error) {
		return b.GetCompanyPosts(r.Context(), req.URL, req.Limit)
	})
}

func (h *Handler) handleJobDetails(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.respondTool(w, r, constants.ToolJobDetails, map[string]any{"url": req.URL}, func(b Backend) (any, error) {
		return b.GetJobDetails(r.Context(), req.URL)
	})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.sessions.Set(req.LiAt); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// Cached results belong to the previous session's view of LinkedIn.
	if h.cache != nil {
		h.cache.Purge()
	}
	h.record(r, "session_update", "", "success", "", 0)
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: map[string]any{"message": "Session updated"}})
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	h.respondTool(w, r, constants.ToolCloseSession, nil, func(b Backend) (any, error) {
		return b.CloseSession(r.Context())
	})
}

func (h *Handler) handleTools(w http.ResponseWriter, r *http.Request) {
	var tools []linkedin.ToolInfo
	start := time.Now()
	err := h.dialer.WithSession(r.Context(), func(b Backend) error {
		var err error
		tools, err = b.ListTools(r.Context())
		return err
	})
	if err != nil {
		h.record(r, "tool_call", "tools/list", "error", err.Error(), time.Since(start))
		writeError(w, statusFor(err), err.Error())
		return
	}
	h.record(r, "tool_call", "tools/list", "success", "", time.Since(start))
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: map[string]any{"tools": tools}})
}

// respondTool runs a single-tool fetch with caching and audit, then writes
// the envelope.
func (h *Handler) respondTool(w http.ResponseWriter, r *http.Request, tool string, args map[string]any, fetch func(Backend) (any, error)) {
	start := time.Now()
	data, err := h.fetchCached(r.Context(), tool, args, fetch)
	if err != nil {
		h.record(r, "tool_call", tool, "error", err.Error(), time.Since(start))
		writeError(w, statusFor(err), err.Error())
		return
	}
	h.record(r, "tool_call", tool, "success", "", time.Since(start))
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func (h *Handler) record(r *http.Request, eventType, tool, outcome, reason string, duration time.Duration) {
	if h.audit == nil {
		return
	}
	h.audit.Record(r.Context(), audit.Event{
		Type:          eventType,
		Tool:          tool,
		CorrelationID: uuid.NewString(),
		Subject:       identityFrom(r.Context()).Subject,
		Outcome:       outcome,
		Reason:        reason,
		Duration:      duration,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// statusFor maps the client error taxonomy onto HTTP status codes. The proxy
// never invents new error semantics: every upstream failure keeps its kind.
func statusFor(err error) int {
	var (
		connErr    *linkedin.ConnectionError
		timeoutErr *linkedin.TimeoutError
		authErr    *linkedin.AuthenticationError
		toolErr    *linkedin.ToolError
	)
	switch {
	case errors.Is(err, linkedin.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &connErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &toolErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Error: message})
}
