package chatbot

import "time"

// Request is a free-text question about bloom seasons.
type Request struct {
	Question string `json:"question"`
}

// Response always carries an answer.
type Response struct {
	Answer string `json:"answer"`
}

// ReferenceRow is one row of the bloom reference table.
type ReferenceRow struct {
	Species    string `json:"species"`
	Country    string `json:"country"`
	BloomStart string `json:"bloom_start"`
	BloomEnd   string `json:"bloom_end"`
	Notes      string `json:"notes"`
}

// Tier identifies which resolution step produced an answer.
type Tier string

const (
	TierKeyword  Tier = "keyword"
	TierSemantic Tier = "semantic"
	TierFallback Tier = "fallback"
)

// Config holds runtime knobs for the chatbot.
type Config struct {
	FallbackLatitude  float64
	FallbackLongitude float64
	FallbackStartYear int
	FallbackEndYear   int
	SemanticTimeout   time.Duration
}

// DefaultConfig returns the fallback reference point and semantic timeout used in production.
func DefaultConfig() Config {
	return Config{
		FallbackLatitude:  20.5937,
		FallbackLongitude: 78.9629,
		FallbackStartYear: 2020,
		FallbackEndYear:   2023,
		SemanticTimeout:   10 * time.Second,
	}
}
