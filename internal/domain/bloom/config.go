package bloom

import "time"

// DefaultFallbackIndex is reported whenever the vegetation provider cannot answer.
const DefaultFallbackIndex = 0.45

// Config holds runtime knobs for the bloom domain.
type Config struct {
	FallbackIndex   float64
	Species         string
	ProviderTimeout time.Duration
	DataQuality     DataQuality
}

// DefaultConfig mirrors the values the public API has always reported.
func DefaultConfig() Config {
	return Config{
		FallbackIndex:   DefaultFallbackIndex,
		Species:         "Hibiscus",
		ProviderTimeout: 20 * time.Second,
		DataQuality: DataQuality{
			Satellite:  "MODIS",
			Confidence: 0.95,
			Trend:      "stable",
			Region:     "Unknown",
		},
	}
}
