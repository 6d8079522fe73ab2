package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonthStart(t *testing.T) {
	ts := time.Date(2024, time.March, 17, 15, 4, 5, 0, time.UTC)
	require.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), MonthStart(ts))
}

func TestRoundTo(t *testing.T) {
	require.Equal(t, 0.453, RoundTo(0.45312, 3))
	require.Equal(t, 0.454, RoundTo(0.4536, 3))
	require.Equal(t, -0.25, RoundTo(-0.2504, 3))
	require.Equal(t, 45.0, RoundTo(45.3, 0))
}

func TestRoundToHalvesGoToEven(t *testing.T) {
	require.Equal(t, 0.312, RoundTo(0.3125, 3))
	require.Equal(t, 0.062, RoundTo(0.0625, 3))
	require.Equal(t, 0.188, RoundTo(0.1875, 3))
	require.Equal(t, 44.0, RoundTo(44.5, 0))
}

func TestClamp(t *testing.T) {
	require.Equal(t, 0.0, Clamp(-0.2, 0, 1))
	require.Equal(t, 1.0, Clamp(1.7, 0, 1))
	require.Equal(t, 0.5, Clamp(0.5, 0, 1))
}
