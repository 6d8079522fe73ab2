package bloom

// GeoPoint is a WGS84 coordinate supplied per request.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the point lies within the WGS84 coordinate ranges.
func (p GeoPoint) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

// Season is a meteorological season name.
type Season string

const (
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonAutumn Season = "Autumn"
)

// Status is the discretised bloom intensity derived from a vegetation index.
type Status string

const (
	StatusDormant     Status = "Dormant"
	StatusLowBloom    Status = "Low Bloom"
	StatusActiveBloom Status = "Active Bloom"
	StatusPeakBloom   Status = "Peak Bloom"
)

// Source records whether a gateway result came from the provider or a fallback.
type Source string

const (
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// IndexResult is the outcome of a vegetation index read. It is always usable.
type IndexResult struct {
	Value  float64
	Season Season
	Source Source
}

// Overlay is what the imagery provider returns on success.
type Overlay struct {
	TileURL      string
	ThumbnailURL string
}

// OverlayResult is the outcome of an imagery request. Either both URLs are set
// or neither is.
type OverlayResult struct {
	Overlay
	Source Source
}

// Available reports whether imagery URLs are present.
func (r OverlayResult) Available() bool {
	return r.Source == SourceProvider
}

// MapRequest captures a map query.
type MapRequest struct {
	Point GeoPoint
	Year  int
}

// Timeline describes the expected bloom window.
type Timeline struct {
	Start string `json:"start"`
	Peak  string `json:"peak"`
	End   string `json:"end"`
}

// DataQuality is reported alongside every map response.
type DataQuality struct {
	Satellite  string  `json:"satellite"`
	Confidence float64 `json:"confidence"`
	Trend      string  `json:"trend"`
	Region     string  `json:"region"`
}

// MapResponse is serialized back to API consumers.
type MapResponse struct {
	Lat          float64     `json:"lat"`
	Lon          float64     `json:"lon"`
	NDVIIndex    float64     `json:"ndvi_index"`
	MapURL       string      `json:"map_url"`
	ThumbnailURL *string     `json:"thumbnail_url"`
	BloomStatus  Status      `json:"bloom_status"`
	Season       Season      `json:"season"`
	BloomScore   int         `json:"bloom_score"`
	Species      string      `json:"species"`
	Timeline     Timeline    `json:"timeline"`
	DataQuality  DataQuality `json:"data_quality"`
	LastUpdated  string      `json:"last_updated"`
}

// ForecastPoint is one month of predicted vegetation index.
type ForecastPoint struct {
	Month         string  `json:"month"`
	PredictedNDVI float64 `json:"predicted_ndvi"`
}

// ForecastResponse wraps the forecast sequence.
type ForecastResponse struct {
	Forecast []ForecastPoint `json:"forecast"`
}
