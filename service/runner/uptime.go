package runner

import (
	"strconv"
	"strings"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerMonth  = 2630016  // 30.44 days
	secondsPerYear   = 31557600 // 365.25 days
)

// FormatUptime formats seconds as a human readable duration, e.g. "1day 2h 3m 4s".
// Zero units are omitted; a zero duration is "0s".
func FormatUptime(seconds uint64) string {
	if seconds == 0 {
		return "0s"
	}
	years := seconds / secondsPerYear
	rest := seconds % secondsPerYear
	months := rest / secondsPerMonth
	rest = rest % secondsPerMonth
	days := rest / secondsPerDay
	rest = rest % secondsPerDay

	var parts []string
	parts = appendPlural(parts, years, "year")
	parts = appendPlural(parts, months, "month")
	parts = appendPlural(parts, days, "day")
	parts = appendUnit(parts, rest/secondsPerHour, "h")
	parts = appendUnit(parts, rest%secondsPerHour/secondsPerMinute, "m")
	parts = appendUnit(parts, rest%secondsPerMinute, "s")
	return strings.Join(parts, " ")
}

func appendPlural(parts []string, value uint64, name string) []string {
	if value == 0 {
		return parts
	}
	if value > 1 {
		name += "s"
	}
	return append(parts, strconv.FormatUint(value, 10)+name)
}

func appendUnit(parts []string, value uint64, unit string) []string {
	if value == 0 {
		return parts
	}
	return append(parts, strconv.FormatUint(value, 10)+unit)
}
