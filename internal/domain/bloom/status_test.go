package bloom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyStatusBoundaries(t *testing.T) {
	cases := []struct {
		value  float64
		status Status
	}{
		{0.6, StatusPeakBloom},
		{0.92, StatusPeakBloom},
		{0.5999, StatusActiveBloom},
		{0.4, StatusActiveBloom},
		{0.3999, StatusLowBloom},
		{0.25, StatusLowBloom},
		{0.24, StatusDormant},
		{-0.3, StatusDormant},
	}
	for _, tc := range cases {
		status, _ := Classify(tc.value)
		require.Equal(t, tc.status, status, "value %v", tc.value)
	}
}

func TestClassifyScore(t *testing.T) {
	cases := []struct {
		value float64
		score int
	}{
		{-1, 0},
		{0, 0},
		{0.453, 45},
		{0.45, 45},
		{1, 100},
		{2, 100},
	}
	for _, tc := range cases {
		_, score := Classify(tc.value)
		require.Equal(t, tc.score, score, "value %v", tc.value)
	}
}
