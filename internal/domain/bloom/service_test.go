package bloom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/bloom-backend/pkg/errors"
	"github.com/yanqian/bloom-backend/pkg/logger"
)

func TestQueryMapComposesReadingAndOverlay(t *testing.T) {
	now := time.Date(2025, time.April, 2, 9, 30, 15, 0, time.UTC)
	overlay := Overlay{TileURL: "https://tiles/{z}/{x}/{y}", ThumbnailURL: "https://thumb.png"}
	svc := newServiceUnderTest(now, &stubIndexProvider{value: 0.61234}, &stubImageryProvider{overlay: overlay}, nil)

	resp, err := svc.QueryMap(context.Background(), MapRequest{Point: GeoPoint{Latitude: 20.5, Longitude: 78.9}, Year: 2023})
	require.NoError(t, err)
	require.Equal(t, 20.5, resp.Lat)
	require.Equal(t, 78.9, resp.Lon)
	require.Equal(t, 0.612, resp.NDVIIndex)
	require.Equal(t, StatusPeakBloom, resp.BloomStatus)
	require.Equal(t, 61, resp.BloomScore)
	require.Equal(t, SeasonSpring, resp.Season)
	require.Equal(t, Timeline{Start: "September", Peak: "October-November", End: "December"}, resp.Timeline)
	require.Equal(t, "Hibiscus", resp.Species)
	require.Equal(t, DefaultConfig().DataQuality, resp.DataQuality)
	require.Equal(t, "2025-04-02T09:30:15", resp.LastUpdated)
	require.Equal(t, overlay.TileURL, resp.MapURL)
	require.NotNil(t, resp.ThumbnailURL)
	require.Equal(t, overlay.ThumbnailURL, *resp.ThumbnailURL)
}

func TestQueryMapDegradesWhenProvidersFail(t *testing.T) {
	now := time.Date(2025, time.August, 2, 0, 0, 0, 0, time.UTC)
	svc := newServiceUnderTest(now, &stubIndexProvider{err: errors.New("network")}, &stubImageryProvider{err: errors.New("network")}, nil)

	resp, err := svc.QueryMap(context.Background(), MapRequest{Point: GeoPoint{Latitude: 20.5, Longitude: 78.9}, Year: 2023})
	require.NoError(t, err)
	require.Equal(t, 0.45, resp.NDVIIndex)
	require.Equal(t, StatusActiveBloom, resp.BloomStatus)
	require.Equal(t, 45, resp.BloomScore)
	require.Equal(t, SeasonSummer, resp.Season)
	require.Equal(t, Timeline{Start: "Variable", Peak: "Variable", End: "Variable"}, resp.Timeline)
	require.Equal(t, "", resp.MapURL)
	require.Nil(t, resp.ThumbnailURL)
}

func TestQueryMapKeepsOutOfRangeProviderValues(t *testing.T) {
	svc := newServiceUnderTest(time.Now(), &stubIndexProvider{value: 1.23456}, &stubImageryProvider{err: errors.New("x")}, nil)

	resp, err := svc.QueryMap(context.Background(), MapRequest{Point: GeoPoint{Latitude: 1, Longitude: 1}, Year: 2023})
	require.NoError(t, err)
	require.Equal(t, 1.235, resp.NDVIIndex)
	require.Equal(t, 100, resp.BloomScore)
}

func TestQueryMapRoundsHalfToEven(t *testing.T) {
	svc := newServiceUnderTest(time.Now(), &stubIndexProvider{value: 0.3125}, &stubImageryProvider{err: errors.New("x")}, nil)

	resp, err := svc.QueryMap(context.Background(), MapRequest{Point: GeoPoint{Latitude: 1, Longitude: 1}, Year: 2023})
	require.NoError(t, err)
	require.Equal(t, 0.312, resp.NDVIIndex)
}

func TestQueryMapRejectsInvalidPoint(t *testing.T) {
	svc := newServiceUnderTest(time.Now(), &stubIndexProvider{}, &stubImageryProvider{}, nil)

	_, err := svc.QueryMap(context.Background(), MapRequest{Point: GeoPoint{Latitude: 91, Longitude: 0}, Year: 2023})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestQueryForecast(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	loader := &stubLoader{model: &stubModel{values: []float64{0.3, 0.35}}}
	svc := newServiceUnderTest(now, nil, nil, loader)

	resp, err := svc.QueryForecast(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, []ForecastPoint{{Month: "June", PredictedNDVI: 0.3}, {Month: "July", PredictedNDVI: 0.35}}, resp.Forecast)
	require.True(t, svc.ModelLoaded())
}

func TestQueryForecastValidatesMonths(t *testing.T) {
	svc := newServiceUnderTest(time.Now(), nil, nil, &stubLoader{model: &stubModel{}})
	for _, months := range []int{0, 25} {
		_, err := svc.QueryForecast(context.Background(), months)
		require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput), "months %d", months)
	}
}

func TestQueryForecastSurfacesMissingArtifact(t *testing.T) {
	svc := newServiceUnderTest(time.Now(), nil, nil, &stubLoader{err: ErrArtifactNotFound})

	_, err := svc.QueryForecast(context.Background(), 6)
	require.True(t, apperrors.IsCode(err, apperrors.CodeArtifactNotFound))
	require.Error(t, svc.WarmUp(context.Background()))
}

func newServiceUnderTest(now time.Time, index IndexProvider, imagery ImageryProvider, loader ModelLoader) Service {
	cfg := DefaultConfig()
	log := logger.Discard()
	clock := fixedClock(now)

	vegetation := NewVegetationGateway(cfg, index, log)
	vegetation.now = clock
	forecast := NewForecastGateway(loader, log)
	forecast.now = clock
	svc := NewService(cfg, vegetation, NewImageryGateway(cfg, imagery, log), forecast, log).(*service)
	svc.now = clock
	return svc
}
