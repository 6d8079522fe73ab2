// Package readingcache caches successful vegetation index readings in front
// of the upstream provider.
package readingcache

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/yanqian/bloom-backend/internal/domain/bloom"
	"github.com/yanqian/bloom-backend/pkg/metrics"
)

// Store is a TTL key/value store for readings.
type Store interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, value float64, ttl time.Duration) error
}

// Provider decorates an IndexProvider. Provider errors pass through untouched
// so the gateway's fallback value never reaches the cache.
type Provider struct {
	next   bloom.IndexProvider
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

var _ bloom.IndexProvider = (*Provider)(nil)

// NewProvider wraps next with store.
func NewProvider(next bloom.IndexProvider, store Store, ttl time.Duration, logger *slog.Logger) *Provider {
	return &Provider{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.With("component", "readingcache"),
	}
}

// MeanIndex serves from cache when possible.
func (p *Provider) MeanIndex(ctx context.Context, point bloom.GeoPoint, year int) (float64, error) {
	key := cacheKey(point, year)

	value, ok, err := p.store.Get(ctx, key)
	switch {
	case err != nil:
		metrics.ReadingCacheTotal.WithLabelValues("error").Inc()
		p.logger.Warn("reading cache lookup failed", "key", key, "error", err)
	case ok:
		metrics.ReadingCacheTotal.WithLabelValues("hit").Inc()
		return value, nil
	default:
		metrics.ReadingCacheTotal.WithLabelValues("miss").Inc()
	}

	value, err = p.next.MeanIndex(ctx, point, year)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value, nil
	}
	if err := p.store.Set(ctx, key, value, p.ttl); err != nil {
		p.logger.Warn("reading cache store failed", "key", key, "error", err)
	}
	return value, nil
}

func cacheKey(point bloom.GeoPoint, year int) string {
	return fmt.Sprintf("%.4f:%.4f:%d", point.Latitude, point.Longitude, year)
}
