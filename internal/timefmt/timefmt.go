// Package timefmt renders durations the way the sync overlay shows them.
package timefmt

import "fmt"

const (
	hourSeconds = 60 * 60
	daySeconds  = 24 * hourSeconds
	weekSeconds = 7 * daySeconds
	// average Gregorian year
	yearSeconds = 31556952
)

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// NiceOffset returns a coarse, human readable form of secs such as
// "80 minutes" or "1 year and 3 weeks". Negative offsets read as 0 seconds.
func NiceOffset(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return plural(secs, "second")
	case secs < 2*hourSeconds:
		return plural(secs/60, "minute")
	case secs < 2*daySeconds:
		return plural(secs/hourSeconds, "hour")
	case secs < 2*weekSeconds:
		return plural(secs/daySeconds, "day")
	case secs < yearSeconds:
		return plural(secs/weekSeconds, "week")
	default:
		years := secs / yearSeconds
		remainder := secs % yearSeconds
		return fmt.Sprintf("%s and %s", plural(years, "year"), plural(remainder/weekSeconds, "week"))
	}
}
