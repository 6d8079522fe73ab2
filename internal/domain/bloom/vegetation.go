package bloom

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/yanqian/bloom-backend/pkg/metrics"
)

// IndexProvider returns the mean vegetation index around a point for a calendar year.
type IndexProvider interface {
	MeanIndex(ctx context.Context, point GeoPoint, year int) (float64, error)
}

var errNoIndexProvider = errors.New("no vegetation index provider configured")

// VegetationGateway reads vegetation indices and never fails: any provider
// error degrades to the configured fallback value.
type VegetationGateway struct {
	provider IndexProvider
	fallback float64
	timeout  time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewVegetationGateway wires the gateway around a provider.
func NewVegetationGateway(cfg Config, provider IndexProvider, logger *slog.Logger) *VegetationGateway {
	return &VegetationGateway{
		provider: provider,
		fallback: cfg.FallbackIndex,
		timeout:  cfg.ProviderTimeout,
		now:      time.Now,
		logger:   logger.With("component", "bloom.vegetation"),
	}
}

// ReadIndex makes a single attempt against the provider. The season is
// always derived from the current processing month, not the requested year.
func (g *VegetationGateway) ReadIndex(ctx context.Context, point GeoPoint, year int) IndexResult {
	season := SeasonFor(g.now().UTC().Month(), point.Latitude)

	value, err := g.fetch(ctx, point, year)
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("vegetation", metrics.OutcomeFallback).Inc()
		g.logger.Warn("vegetation index unavailable, using fallback", "lat", point.Latitude, "lon", point.Longitude, "year", year, "fallback", g.fallback, "error", err)
		return IndexResult{Value: g.fallback, Season: season, Source: SourceFallback}
	}
	metrics.ProviderCallsTotal.WithLabelValues("vegetation", metrics.OutcomeSuccess).Inc()
	return IndexResult{Value: value, Season: season, Source: SourceProvider}
}

func (g *VegetationGateway) fetch(ctx context.Context, point GeoPoint, year int) (float64, error) {
	if g.provider == nil {
		return 0, errNoIndexProvider
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	start := time.Now()
	value, err := g.provider.MeanIndex(ctx, point, year)
	metrics.ProviderLatency.WithLabelValues("vegetation").Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.New("vegetation index is not a finite number")
	}
	return value, nil
}
