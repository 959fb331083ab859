package metrics

import (
	"context"
	"time"

	"github.com/ahmedXDR/auth-visage-backend/internal/cache"
	"github.com/ahmedXDR/auth-visage-backend/internal/config"
	"github.com/ahmedXDR/auth-visage-backend/internal/store"
)

// Flow label values for session gauges
const (
	FlowOAuth  = "oauth"
	FlowSignIn = "signin"
)

// MetricsStore defines the database operations CacheWrapper needs.
// The narrow interface keeps tests from requiring a full store.Store.
type MetricsStore interface {
	CountActiveOAuthSessions() (int64, error)
	CountActiveSignInSessions() (int64, error)
	CountEnrolledFaces() (int64, error)
	CountPendingAuthCodes(validity time.Duration) (int64, error)
}

// Compile-time check that the real store satisfies the interface.
var _ MetricsStore = (*store.Store)(nil)

// CacheWrapper provides a read-through cache for the gauge counts so the
// periodic updater does not hammer the database.
type CacheWrapper struct {
	store MetricsStore
	cache cache.Cache[int64]
}

// NewCacheWrapper creates a new cache wrapper for metrics.
func NewCacheWrapper(store MetricsStore, cache cache.Cache[int64]) *CacheWrapper {
	return &CacheWrapper{
		store: store,
		cache: cache,
	}
}

// GetActiveSessionsCount retrieves the active session count per flow.
func (m *CacheWrapper) GetActiveSessionsCount(
	ctx context.Context,
	flow string,
	ttl time.Duration,
) (int64, error) {
	fetch := m.store.CountActiveOAuthSessions
	if flow == FlowSignIn {
		fetch = m.store.CountActiveSignInSessions
	}
	return m.getCountWithCache(ctx, "sessions:"+flow, ttl, fetch)
}

// GetEnrolledFacesCount retrieves the enrolled face count.
func (m *CacheWrapper) GetEnrolledFacesCount(
	ctx context.Context,
	ttl time.Duration,
) (int64, error) {
	return m.getCountWithCache(ctx, "faces:enrolled", ttl, m.store.CountEnrolledFaces)
}

// GetPendingAuthCodesCount retrieves the unredeemed auth code count.
func (m *CacheWrapper) GetPendingAuthCodesCount(
	ctx context.Context,
	ttl time.Duration,
) (int64, error) {
	return m.getCountWithCache(ctx, "codes:pending", ttl, func() (int64, error) {
		return m.store.CountPendingAuthCodes(config.AuthCodeValidity)
	})
}

// getCountWithCache retrieves a count using the cache-aside pattern,
// preferring implementations with stampede protection.
func (m *CacheWrapper) getCountWithCache(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fetchFunc func() (int64, error),
) (int64, error) {
	fetch := func(ctx context.Context, key string) (int64, error) {
		return fetchFunc()
	}
	if c, ok := m.cache.(cache.CacheWithFetch[int64]); ok {
		return c.GetWithFetch(ctx, key, ttl, fetch)
	}
	return cache.GetWithFetch(ctx, m.cache, key, ttl, fetch)
}
