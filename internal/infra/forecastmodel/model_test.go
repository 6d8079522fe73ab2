package forecastmodel

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var epoch = time.Unix(0, 0).UTC()

func TestPredictLinearTrendWithChangepoint(t *testing.T) {
	model := &Model{artifact: Artifact{
		Start:         epoch,
		TScaleDays:    10,
		YScale:        1,
		K:             1,
		M:             0,
		ChangepointsT: []float64{0.5},
		Deltas:        []float64{1},
	}}

	values, err := model.Predict(context.Background(), []time.Time{
		epoch.AddDate(0, 0, 2),
		epoch.AddDate(0, 0, 10),
	})
	require.NoError(t, err)
	require.InDelta(t, 0.2, values[0], 1e-9)
	// slope 2 after the changepoint, offset adjusted to stay continuous
	require.InDelta(t, 1.5, values[1], 1e-9)
}

func TestPredictYearlySeasonality(t *testing.T) {
	model := &Model{artifact: Artifact{
		Start:            epoch,
		TScaleDays:       365.25,
		YScale:           2,
		YearlyPeriodDays: 365.25,
		YearlyBeta:       []float64{0.1, 0},
	}}
	quarter := epoch.Add(time.Duration(365.25 / 4 * 24 * float64(time.Hour)))

	values, err := model.Predict(context.Background(), []time.Time{epoch, quarter})
	require.NoError(t, err)
	require.InDelta(t, 0, values[0], 1e-9)
	require.InDelta(t, 0.2, values[1], 1e-9)
}

func TestPredictHonorsCancellation(t *testing.T) {
	model := &Model{artifact: Artifact{Start: epoch, TScaleDays: 1}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := model.Predict(ctx, []time.Time{epoch})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDecodeValidates(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"start":"2015-01-01T00:00:00Z","t_scale_days":100,"changepoints_t":[0.1],"deltas":[]}`))
	require.Error(t, err)

	_, err = Decode(strings.NewReader(`not json`))
	require.Error(t, err)

	model, err := Decode(strings.NewReader(`{"start":"2015-01-01T00:00:00Z","t_scale_days":100,"y_scale":1,"k":0.1,"m":0.4}`))
	require.NoError(t, err)
	require.NotNil(t, model)
}
