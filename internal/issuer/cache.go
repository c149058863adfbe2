package issuer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL sits safely inside the issuer's real 24h validity window.
const DefaultTTL = 23 * time.Hour

// FetchFunc obtains a fresh credential from the issuer.
type FetchFunc func(ctx context.Context) (string, error)

// Cache holds a single issued credential and its expiry. Renewal is
// single-flight: concurrent callers hitting a cold or expired cache share
// one underlying fetch. A failed fetch propagates to callers and leaves any
// previously cached credential untouched, so a transient issuer outage does
// not discard a still-valid token.
type Cache struct {
	fetch FetchFunc
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time

	group singleflight.Group
}

// NewCache creates a credential cache. now may be nil, defaulting to
// time.Now; tests inject a fixed clock.
func NewCache(fetch FetchFunc, ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{fetch: fetch, ttl: ttl, now: now}
}

// Token returns the cached credential while it is still valid, renewing it
// through the fetcher otherwise.
func (c *Cache) Token(ctx context.Context) (string, error) {
	if tok, ok := c.cached(); ok {
		return tok, nil
	}

	v, err, _ := c.group.Do("credential", func() (any, error) {
		// A waiter queued behind the winning fetch sees the fresh value here.
		if tok, ok := c.cached(); ok {
			return tok, nil
		}

		tok, err := c.fetch(ctx)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.token = tok
		c.expiresAt = c.now().Add(c.ttl)
		c.mu.Unlock()

		return tok, nil
	})
	if err != nil {
		return "", fmt.Errorf("issuer.Cache.Token: %w", err)
	}

	return v.(string), nil
}

func (c *Cache) cached() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.expiresAt) {
		return c.token, true
	}
	return "", false
}
