package bloom

import "math"

// Classify buckets a vegetation index into a bloom status and a 0-100 score.
// Boundary values belong to the higher bucket.
func Classify(value float64) (Status, int) {
	return statusFor(value), scoreFor(value)
}

func statusFor(value float64) Status {
	switch {
	case value >= 0.6:
		return StatusPeakBloom
	case value >= 0.4:
		return StatusActiveBloom
	case value >= 0.25:
		return StatusLowBloom
	default:
		return StatusDormant
	}
}

func scoreFor(value float64) int {
	if math.IsNaN(value) {
		return 0
	}
	score := math.RoundToEven(value * 100)
	return int(math.Max(0, math.Min(100, score)))
}
