// Package forecastmodel loads the persisted bloom forecast artifact and runs
// inference on it.
package forecastmodel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/yanqian/bloom-backend/internal/domain/bloom"
)

// Artifact is the on-disk JSON export of a piecewise-linear trend model with
// yearly Fourier seasonality. Time is scaled so that t=0 at Start and t=1 at
// Start+TScaleDays; the prediction is YScale * (trend(t) + seasonal(date)).
type Artifact struct {
	Start            time.Time `json:"start"`
	TScaleDays       float64   `json:"t_scale_days"`
	YScale           float64   `json:"y_scale"`
	K                float64   `json:"k"`
	M                float64   `json:"m"`
	ChangepointsT    []float64 `json:"changepoints_t"`
	Deltas           []float64 `json:"deltas"`
	YearlyPeriodDays float64   `json:"yearly_period_days"`
	YearlyBeta       []float64 `json:"yearly_beta"`
}

// Validate checks the artifact is internally consistent.
func (a Artifact) Validate() error {
	if a.Start.IsZero() {
		return errors.New("artifact start is missing")
	}
	if a.TScaleDays <= 0 {
		return errors.New("artifact t_scale_days must be positive")
	}
	if len(a.ChangepointsT) != len(a.Deltas) {
		return fmt.Errorf("artifact has %d changepoints but %d deltas", len(a.ChangepointsT), len(a.Deltas))
	}
	if len(a.YearlyBeta)%2 != 0 {
		return errors.New("artifact yearly_beta must hold sin/cos pairs")
	}
	if len(a.YearlyBeta) > 0 && a.YearlyPeriodDays <= 0 {
		return errors.New("artifact yearly_period_days must be positive")
	}
	return nil
}

// Model is an immutable, validated artifact ready for inference.
type Model struct {
	artifact Artifact
}

var _ bloom.ForecastModel = (*Model)(nil)

// Decode reads and validates an artifact.
func Decode(r io.Reader) (*Model, error) {
	var artifact Artifact
	if err := json.NewDecoder(r).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("decode forecast artifact: %w", err)
	}
	if err := artifact.Validate(); err != nil {
		return nil, err
	}
	return &Model{artifact: artifact}, nil
}

// Predict returns one value per date, in order.
func (m *Model) Predict(ctx context.Context, dates []time.Time) ([]float64, error) {
	out := make([]float64, len(dates))
	for i, date := range dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = m.predict(date)
	}
	return out, nil
}

func (m *Model) predict(date time.Time) float64 {
	a := m.artifact
	t := date.Sub(a.Start).Hours() / 24 / a.TScaleDays
	return a.YScale * (m.trend(t) + m.seasonal(date))
}

func (m *Model) trend(t float64) float64 {
	a := m.artifact
	k, offset := a.K, a.M
	for i, cp := range a.ChangepointsT {
		if t < cp {
			continue
		}
		k += a.Deltas[i]
		offset -= cp * a.Deltas[i]
	}
	return k*t + offset
}

func (m *Model) seasonal(date time.Time) float64 {
	a := m.artifact
	if len(a.YearlyBeta) == 0 {
		return 0
	}
	days := float64(date.Unix()) / 86400
	var sum float64
	for n := 0; n < len(a.YearlyBeta)/2; n++ {
		x := 2 * math.Pi * float64(n+1) * days / a.YearlyPeriodDays
		sum += a.YearlyBeta[2*n]*math.Sin(x) + a.YearlyBeta[2*n+1]*math.Cos(x)
	}
	return sum
}
