package proxy

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/talentwire/linkedin-mcp-bridge/internal/audit"
	"github.com/talentwire/linkedin-mcp-bridge/internal/auth"
	"github.com/talentwire/linkedin-mcp-bridge/internal/security"
)

type contextKey int

const identityKey contextKey = iota

// identityFrom returns the authenticated identity stored by requireAuth.
func identityFrom(ctx context.Context) auth.Identity {
	identity, _ := ctx.Value(identityKey).(auth.Identity)
	return identity
}

// requireAuth extracts and verifies the bearer token, then applies the
// per-identity rate limit.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		identity, err := h.verifier.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				if h.audit != nil {
					h.audit.Record(r.Context(), audit.Event{
						Type:    "auth_denied",
						Subject: security.RedactToken(token),
						Outcome: "error",
						Reason:  "invalid token",
					})
				}
				writeError(w, http.StatusUnauthorized, "invalid bearer token")
				return
			}
			h.logger.Error("auth provider error", "error", err)
			writeError(w, http.StatusServiceUnavailable, "authentication unavailable")
			return
		}

		key := identity.Subject
		if key == "" {
			key = security.RedactToken(token)
		}
		if !h.limiters.allow(key) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// limiterPool keeps one token-bucket limiter per authenticated identity.
type limiterPool struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	perMinute int
	burst     int
}

func newLimiterPool(perMinute, burst int) *limiterPool {
	if burst <= 0 {
		burst = 1
	}
	return &limiterPool{
		limiters:  make(map[string]*rate.Limiter),
		perMinute: perMinute,
		burst:     burst,
	}
}

func (p *limiterPool) allow(key string) bool {
	if p == nil || p.perMinute <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	limiter, ok := p.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(p.perMinute)), p.burst)
		p.limiters[key] = limiter
	}
	return limiter.Allow()
}
