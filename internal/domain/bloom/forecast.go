package bloom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/yanqian/bloom-backend/pkg/errors"
	"github.com/yanqian/bloom-backend/pkg/lazy"
	"github.com/yanqian/bloom-backend/pkg/util"
)

// MaxForecastMonths bounds the forecast horizon accepted at the API boundary.
const MaxForecastMonths = 24

// ErrArtifactNotFound is returned when no forecast artifact exists at any candidate location.
var ErrArtifactNotFound = errors.New("forecast artifact not found")

// ForecastModel is a trained time-series model used for inference only.
type ForecastModel interface {
	Predict(ctx context.Context, dates []time.Time) ([]float64, error)
}

// ModelLoader reads the persisted forecast artifact.
type ModelLoader interface {
	Load(ctx context.Context) (ForecastModel, error)
}

// ForecastGateway owns the process-wide forecast model.
type ForecastGateway struct {
	loader ModelLoader
	model  lazy.Value[ForecastModel]
	now    func() time.Time
	logger *slog.Logger
}

// NewForecastGateway wires the gateway around an artifact loader.
func NewForecastGateway(loader ModelLoader, logger *slog.Logger) *ForecastGateway {
	return &ForecastGateway{
		loader: loader,
		now:    time.Now,
		logger: logger.With("component", "bloom.forecast"),
	}
}

// Load returns the cached model, loading it on first use. Concurrent first
// callers may load twice; the first published model is kept for the process
// lifetime. A missing artifact is reported and not cached.
func (g *ForecastGateway) Load(ctx context.Context) (ForecastModel, error) {
	return g.model.Get(ctx, func(ctx context.Context) (ForecastModel, error) {
		if g.loader == nil {
			return nil, apperrors.Wrap(apperrors.CodeArtifactNotFound, "no forecast artifact loader configured", ErrArtifactNotFound)
		}
		model, err := g.loader.Load(ctx)
		if err != nil {
			if errors.Is(err, ErrArtifactNotFound) {
				return nil, apperrors.Wrap(apperrors.CodeArtifactNotFound, "forecast model unavailable", err)
			}
			return nil, apperrors.Wrap(apperrors.CodeForecast, "load forecast model", err)
		}
		g.logger.Info("forecast model loaded")
		return model, nil
	})
}

// Loaded reports whether a model has been published.
func (g *ForecastGateway) Loaded() bool {
	_, ok := g.model.Load()
	return ok
}

// Forecast predicts one value per month for the next months calendar months,
// starting with the current one. Month names repeat for horizons beyond a year.
func (g *ForecastGateway) Forecast(ctx context.Context, model ForecastModel, months int) ([]ForecastPoint, error) {
	if months <= 0 {
		return []ForecastPoint{}, nil
	}
	dates := monthStarts(g.now().UTC(), months)
	values, err := model.Predict(ctx, dates)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeForecast, "forecast prediction failed", err)
	}
	if len(values) != len(dates) {
		return nil, apperrors.Wrap(apperrors.CodeForecast, fmt.Sprintf("forecast returned %d values for %d months", len(values), len(dates)), nil)
	}
	points := make([]ForecastPoint, len(dates))
	for i, date := range dates {
		points[i] = ForecastPoint{
			Month:         date.Month().String(),
			PredictedNDVI: util.RoundTo(util.Clamp(values[i], 0, 1), 3),
		}
	}
	return points, nil
}

func monthStarts(from time.Time, months int) []time.Time {
	first := util.MonthStart(from)
	dates := make([]time.Time, months)
	for i := range dates {
		dates[i] = first.AddDate(0, i, 0)
	}
	return dates
}
