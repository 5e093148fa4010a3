package auth

import (
	"context"
	"sync"
	"time"
)

// Cached wraps a Verifier and remembers successful verifications for a TTL,
// sparing the auth provider one round-trip per proxied request. Rejections
// are never cached so revocation takes effect immediately.
type Cached struct {
	inner Verifier
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]cachedIdentity
	now     func() time.Time
}

type cachedIdentity struct {
	identity  Identity
	expiresAt time.Time
}

// NewCached wraps inner with a verification cache.
func NewCached(inner Verifier, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cached{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cachedIdentity),
		now:     time.Now,
	}
}

// Verify implements Verifier.
func (c *Cached) Verify(ctx context.Context, token string) (Identity, error) {
	c.mu.Lock()
	if entry, ok := c.entries[token]; ok {
		if c.now().Before(entry.expiresAt) {
			c.mu.Unlock()
			return entry.identity, nil
		}
		delete(c.entries, token)
	}
	c.mu.Unlock()

	identity, err := c.inner.Verify(ctx, token)
	if err != nil {
		return Identity{}, err
	}

	c.mu.Lock()
	c.entries[token] = cachedIdentity{identity: identity, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return identity, nil
}
