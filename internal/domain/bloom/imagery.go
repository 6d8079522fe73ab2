package bloom

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/bloom-backend/pkg/metrics"
)

// ImageryProvider renders a tile URL template and a thumbnail URL for a point and year.
type ImageryProvider interface {
	Overlay(ctx context.Context, point GeoPoint, year int) (Overlay, error)
}

var (
	errNoImageryProvider = errors.New("no imagery provider configured")
	errPartialOverlay    = errors.New("imagery provider returned a partial overlay")
)

// ImageryGateway fetches overlay imagery. Failures yield no imagery at all,
// never a tile URL without a thumbnail or the reverse.
type ImageryGateway struct {
	provider ImageryProvider
	timeout  time.Duration
	logger   *slog.Logger
}

// NewImageryGateway wires the gateway around a provider.
func NewImageryGateway(cfg Config, provider ImageryProvider, logger *slog.Logger) *ImageryGateway {
	return &ImageryGateway{
		provider: provider,
		timeout:  cfg.ProviderTimeout,
		logger:   logger.With("component", "bloom.imagery"),
	}
}

// GetOverlay makes a single attempt against the provider.
func (g *ImageryGateway) GetOverlay(ctx context.Context, point GeoPoint, year int) OverlayResult {
	overlay, err := g.fetch(ctx, point, year)
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues("imagery", metrics.OutcomeFallback).Inc()
		g.logger.Warn("imagery unavailable", "lat", point.Latitude, "lon", point.Longitude, "year", year, "error", err)
		return OverlayResult{Source: SourceFallback}
	}
	metrics.ProviderCallsTotal.WithLabelValues("imagery", metrics.OutcomeSuccess).Inc()
	return OverlayResult{Overlay: overlay, Source: SourceProvider}
}

func (g *ImageryGateway) fetch(ctx context.Context, point GeoPoint, year int) (Overlay, error) {
	if g.provider == nil {
		return Overlay{}, errNoImageryProvider
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	start := time.Now()
	overlay, err := g.provider.Overlay(ctx, point, year)
	metrics.ProviderLatency.WithLabelValues("imagery").Observe(time.Since(start).Seconds())
	if err != nil {
		return Overlay{}, err
	}
	if strings.TrimSpace(overlay.TileURL) == "" || strings.TrimSpace(overlay.ThumbnailURL) == "" {
		return Overlay{}, errPartialOverlay
	}
	return overlay, nil
}
