package bloom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSeasonForAllMonths(t *testing.T) {
	north := map[time.Month]Season{
		time.January: SeasonWinter, time.February: SeasonWinter, time.March: SeasonSpring,
		time.April: SeasonSpring, time.May: SeasonSpring, time.June: SeasonSummer,
		time.July: SeasonSummer, time.August: SeasonSummer, time.September: SeasonAutumn,
		time.October: SeasonAutumn, time.November: SeasonAutumn, time.December: SeasonWinter,
	}
	south := map[time.Month]Season{
		time.January: SeasonSummer, time.February: SeasonSummer, time.March: SeasonAutumn,
		time.April: SeasonAutumn, time.May: SeasonAutumn, time.June: SeasonWinter,
		time.July: SeasonWinter, time.August: SeasonWinter, time.September: SeasonSpring,
		time.October: SeasonSpring, time.November: SeasonSpring, time.December: SeasonSummer,
	}

	for month := time.January; month <= time.December; month++ {
		require.Equal(t, north[month], SeasonFor(month, 45), "north %s", month)
		require.Equal(t, north[month], SeasonFor(month, 0), "equator %s", month)
		require.Equal(t, south[month], SeasonFor(month, -33.9), "south %s", month)
	}
}

func TestTimelineFor(t *testing.T) {
	require.Equal(t, Timeline{Start: "September", Peak: "October-November", End: "December"}, TimelineFor(SeasonSpring))
	require.Equal(t, Timeline{Start: "September", Peak: "Variable", End: "December"}, TimelineFor(SeasonAutumn))
	variable := Timeline{Start: "Variable", Peak: "Variable", End: "Variable"}
	require.Equal(t, variable, TimelineFor(SeasonSummer))
	require.Equal(t, variable, TimelineFor(SeasonWinter))
}
