package cache

import (
	"context"
	"time"

	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/logger"
	"github.com/developer-chiranjeevim/B2P-STUDENT-UI/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	razorpayKeyCacheKey = "checkout:razorpay-key"
	cacheCheckPeriod    = 10 * time.Second
	cacheName           = "razorpay_key"
)

// KeySource fetches the Razorpay public key from the backend.
type KeySource interface {
	GetRazorpayKey(ctx context.Context) (string, error)
}

// KeyCache lazily fetches and caches the Razorpay public key. The key is
// public configuration, not a secret; caching it keeps checkout bootstrap
// off the backend's hot path.
type KeyCache struct {
	cache  *gocache.Cache
	source KeySource
}

// NewKeyCache creates a key cache with the given TTL.
func NewKeyCache(source KeySource, ttl time.Duration) *KeyCache {
	return &KeyCache{
		cache:  gocache.New(ttl, cacheCheckPeriod),
		source: source,
	}
}

// Get returns the cached key or fetches it from the backend on a miss.
// A fetch failure is returned as-is and nothing is cached for it.
func (kc *KeyCache) Get(ctx context.Context) (string, error) {
	if cached, found := kc.cache.Get(razorpayKeyCacheKey); found {
		metrics.CacheHits.WithLabelValues(cacheName).Inc()
		return cached.(string), nil
	}

	metrics.CacheMisses.WithLabelValues(cacheName).Inc()

	key, err := kc.source.GetRazorpayKey(ctx)
	if err != nil {
		logger.Warn("Razorpay key fetch failed", zap.Error(err))
		return "", err
	}

	kc.cache.SetDefault(razorpayKeyCacheKey, key)
	return key, nil
}

// Invalidate drops the cached key so the next Get refetches it.
func (kc *KeyCache) Invalidate() {
	kc.cache.Delete(razorpayKeyCacheKey)
}
