package aggregate

import "time"

// CurrentSeason returns the api-football season year for the given time.
// European seasons span two calendar years and are identified by the year
// they start in; from July on the season is the current calendar year,
// before that it is the previous one.
func CurrentSeason(now time.Time) int {
	if now.Month() >= time.July {
		return now.Year()
	}
	return now.Year() - 1
}
