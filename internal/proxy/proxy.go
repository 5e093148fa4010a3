// Package proxy exposes the backend HTTP surface: it authenticates each
// request against the external auth provider, forwards it to the LinkedIn MCP
// client, and maps the client's error taxonomy onto HTTP status codes.
package proxy

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/talentwire/linkedin-mcp-bridge/internal/audit"
	"github.com/talentwire/linkedin-mcp-bridge/internal/auth"
	"github.com/talentwire/linkedin-mcp-bridge/internal/cache"
	"github.com/talentwire/linkedin-mcp-bridge/internal/linkedin"
	"github.com/talentwire/linkedin-mcp-bridge/internal/session"
)

// Backend is the slice of the LinkedIn client the proxy invokes. It is
// satisfied by *linkedin.Client.
type Backend interface {
	GetPersonProfile(ctx context.Context, url string) (*linkedin.PersonProfile, error)
	GetCompanyProfile(ctx context.Context, url string) (*linkedin.CompanyProfile, error)
	GetCompanyPosts(ctx context.Context, url string, limit *int) (*linkedin.CompanyPosts, error)
	SearchJobs(ctx context.Context, params linkedin.JobSearchParams) (*linkedin.JobSearchResult, error)
	GetJobDetails(ctx context.Context, url string) (*linkedin.JobDetails, error)
	CloseSession(ctx context.Context) (*linkedin.CloseSessionResult, error)
	ListTools(ctx context.Context) ([]linkedin.ToolInfo, error)
}

// SessionOpener yields a connected Backend for the duration of fn. Each
// request gets its own scoped session so an abandoned call can never leak an
// open transport past the request that issued it.
type SessionOpener interface {
	WithSession(ctx context.Context, fn func(Backend) error) error
}

// Dialer opens linkedin.Client sessions from a fixed configuration.
type Dialer struct {
	Config linkedin.Config
}

// WithSession implements SessionOpener.
func (d *Dialer) WithSession(ctx context.Context, fn func(Backend) error) error {
	client, err := linkedin.NewClient(d.Config)
	if err != nil {
		return err
	}
	return client.Session(ctx, func(c *linkedin.Client) error {
		return fn(c)
	})
}

// Handler serves the backend proxy routes.
type Handler struct {
	dialer      SessionOpener
	verifier    auth.Verifier
	sessions    *session.Store
	cache       *cache.Cache
	limiters    *limiterPool
	audit       audit.Logger
	logger      *slog.Logger
	searchDelay time.Duration
}

// Options configures a Handler.
type Options struct {
	// Dialer opens backend sessions. Required.
	Dialer SessionOpener
	// Verifier checks bearer tokens. Required.
	Verifier auth.Verifier
	// Sessions stores the LinkedIn cookie. Required.
	Sessions *session.Store
	// Cache holds read-operation responses. Nil disables caching.
	Cache *cache.Cache
	// RatePerMinute limits calls per identity. Zero disables limiting.
	RatePerMinute int
	// RateBurst allows short bursts above the sustained rate.
	RateBurst int
	// Audit records proxied invocations. Nil disables auditing.
	Audit audit.Logger
	// Logger receives request logs. Nil disables logging.
	Logger *slog.Logger
	// SearchDelay is the pause between keywords in multi-keyword searches.
	SearchDelay time.Duration
}

// New builds the proxy handler.
func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		dialer:      opts.Dialer,
		verifier:    opts.Verifier,
		sessions:    opts.Sessions,
		cache:       opts.Cache,
		limiters:    newLimiterPool(opts.RatePerMinute, opts.RateBurst),
		audit:       opts.Audit,
		logger:      logger,
		searchDelay: opts.SearchDelay,
	}
}

// Routes returns the proxy's route table. Health endpoints are mounted by the
// app, outside the auth boundary.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/person-profile", h.requireAuth(h.handlePersonProfile))
	mux.HandleFunc("POST /api/company-profile", h.requireAuth(h.handleCompanyProfile))
	mux.HandleFunc("POST /api/company-posts", h.requireAuth(h.handleCompanyPosts))
	mux.HandleFunc("POST /api/job-details", h.requireAuth(h.handleJobDetails))
	mux.HandleFunc("POST /api/session", h.requireAuth(h.handleSession))
	mux.HandleFunc("POST /api/close-session", h.requireAuth(h.handleCloseSession))
	mux.HandleFunc("GET /api/tools", h.requireAuth(h.handleTools))
	mux.HandleFunc("POST /search", h.requireAuth(h.handleSearch))
	return mux
}

// fetchCached runs fetch inside a backend session, serving repeated reads of
// the same tool+arguments from the cache when one is configured.
func (h *Handler) fetchCached(ctx context.Context, tool string, args map[string]any, fetch func(Backend) (any, error)) (any, error) {
	var key string
	if h.cache != nil {
		key = cache.Key(tool, args)
		if cached, ok := h.cache.Get(key); ok {
			h.logger.Debug("cache hit", "tool", tool)
			return cached, nil
		}
	}

	var out any
	err := h.dialer.WithSession(ctx, func(b Backend) error {
		result, err := fetch(b)
		if err != nil {
			return err
		}
		out = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	if h.cache != nil && key != "" {
		h.cache.Set(key, out)
	}
	return out, nil
}
