package bloom

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/yanqian/bloom-backend/pkg/errors"
	"github.com/yanqian/bloom-backend/pkg/util"
)

// lastUpdatedLayout is ISO-8601 with second precision in UTC.
const lastUpdatedLayout = "2006-01-02T15:04:05"

// Service exposes bloom map and forecast queries.
type Service interface {
	QueryMap(ctx context.Context, req MapRequest) (MapResponse, error)
	QueryForecast(ctx context.Context, months int) (ForecastResponse, error)
	WarmUp(ctx context.Context) error
	ModelLoaded() bool
}

type service struct {
	cfg        Config
	vegetation *VegetationGateway
	imagery    *ImageryGateway
	forecast   *ForecastGateway
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires up the bloom query domain.
func NewService(cfg Config, vegetation *VegetationGateway, imagery *ImageryGateway, forecast *ForecastGateway, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		vegetation: vegetation,
		imagery:    imagery,
		forecast:   forecast,
		logger:     logger.With("component", "bloom.service"),
		now:        time.Now,
	}
}

func (s *service) QueryMap(ctx context.Context, req MapRequest) (MapResponse, error) {
	if !req.Point.Valid() {
		return MapResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "coordinates out of range", nil)
	}

	var (
		reading IndexResult
		overlay OverlayResult
		group   errgroup.Group
	)
	group.Go(func() error {
		reading = s.vegetation.ReadIndex(ctx, req.Point, req.Year)
		return nil
	})
	group.Go(func() error {
		overlay = s.imagery.GetOverlay(ctx, req.Point, req.Year)
		return nil
	})
	_ = group.Wait()

	status, score := Classify(reading.Value)
	resp := MapResponse{
		Lat:         req.Point.Latitude,
		Lon:         req.Point.Longitude,
		NDVIIndex:   util.RoundTo(reading.Value, 3),
		BloomStatus: status,
		Season:      reading.Season,
		BloomScore:  score,
		Species:     s.cfg.Species,
		Timeline:    TimelineFor(reading.Season),
		DataQuality: s.cfg.DataQuality,
		LastUpdated: s.now().UTC().Format(lastUpdatedLayout),
	}
	if overlay.Available() {
		thumb := overlay.ThumbnailURL
		resp.MapURL = overlay.TileURL
		resp.ThumbnailURL = &thumb
	}

	s.logger.Info("bloom map served", "lat", req.Point.Latitude, "lon", req.Point.Longitude, "year", req.Year, "ndvi_source", reading.Source, "imagery_source", overlay.Source)
	return resp, nil
}

func (s *service) QueryForecast(ctx context.Context, months int) (ForecastResponse, error) {
	if months < 1 || months > MaxForecastMonths {
		return ForecastResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("months must be between 1 and %d", MaxForecastMonths), nil)
	}
	model, err := s.forecast.Load(ctx)
	if err != nil {
		return ForecastResponse{}, err
	}
	points, err := s.forecast.Forecast(ctx, model, months)
	if err != nil {
		return ForecastResponse{}, err
	}
	return ForecastResponse{Forecast: points}, nil
}

// WarmUp loads the forecast model ahead of the first request.
func (s *service) WarmUp(ctx context.Context) error {
	_, err := s.forecast.Load(ctx)
	return err
}

func (s *service) ModelLoaded() bool {
	return s.forecast.Loaded()
}
