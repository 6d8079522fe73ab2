package util

import (
	"math"
	"time"
)

// MonthStart truncates t to midnight on the first day of its month, keeping the location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// RoundTo rounds v to the given number of decimal places. Exact halves go to
// the even neighbour, so 0.3125 becomes 0.312.
func RoundTo(v float64, places int) float64 {
	pow := math.Pow10(places)
	return math.RoundToEven(v*pow) / pow
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
