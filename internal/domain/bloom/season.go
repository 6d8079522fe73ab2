package bloom

import "time"

var northernSeasons = map[time.Month]Season{
	time.December: SeasonWinter, time.January: SeasonWinter, time.February: SeasonWinter,
	time.March: SeasonSpring, time.April: SeasonSpring, time.May: SeasonSpring,
	time.June: SeasonSummer, time.July: SeasonSummer, time.August: SeasonSummer,
	time.September: SeasonAutumn, time.October: SeasonAutumn, time.November: SeasonAutumn,
}

var southernOf = map[Season]Season{
	SeasonWinter: SeasonSummer,
	SeasonSpring: SeasonAutumn,
	SeasonSummer: SeasonWinter,
	SeasonAutumn: SeasonSpring,
}

// SeasonFor maps a calendar month and latitude to a season. Latitude zero
// counts as northern hemisphere.
func SeasonFor(month time.Month, latitude float64) Season {
	north, ok := northernSeasons[month]
	if !ok {
		north = SeasonAutumn
	}
	if latitude >= 0 {
		return north
	}
	return southernOf[north]
}

// TimelineFor derives the bloom timeline block from a season.
func TimelineFor(season Season) Timeline {
	if season != SeasonSpring && season != SeasonAutumn {
		return Timeline{Start: "Variable", Peak: "Variable", End: "Variable"}
	}
	peak := "Variable"
	if season == SeasonSpring {
		peak = "October-November"
	}
	return Timeline{Start: "September", Peak: peak, End: "December"}
}
