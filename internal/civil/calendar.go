// Package civil holds the proleptic Gregorian calendar arithmetic shared by
// the zone loader, the rule parser and both converters.
//
// Years are plain int64 values (1970 is 1970, not an offset). Helpers that
// can leave their domain report it instead of wrapping.
package civil

import "math"

const (
	SecondsPerMinute = 60
	MinutesPerHour   = 60
	HoursPerDay      = 24
	DaysPerWeek      = 7
	DaysPerYear      = 365
	DaysPerLeapYear  = 366
	MonthsPerYear    = 12
	SecondsPerHour   = SecondsPerMinute * MinutesPerHour
	SecondsPerDay    = SecondsPerHour * HoursPerDay

	// EpochYear is the year of instant 0.
	EpochYear = 1970
	// EpochWeekday is the weekday of 1970-01-01, a Thursday.
	EpochWeekday = 4
	// YearBase is the origin of the legacy year count. Representable years
	// are those whose distance from YearBase fits an int32.
	YearBase = 1900

	// YearsPerRepeat is the length of the Gregorian cycle in years. After
	// that many years both the calendar and the weekdays repeat.
	YearsPerRepeat = 400
	// AvgSecondsPerYear is the mean Gregorian year in seconds.
	AvgSecondsPerYear = 31556952
	// SecondsPerRepeat is the length of the Gregorian cycle in seconds.
	SecondsPerRepeat = YearsPerRepeat * AvgSecondsPerYear
)

const (
	MinYear = math.MinInt32 + YearBase
	MaxYear = math.MaxInt32
)

var monthLengths = [2][MonthsPerYear]int64{
	{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31},
	{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31},
}

var yearLengths = [2]int64{DaysPerYear, DaysPerLeapYear}

// IsLeap determines if the year is a leap year.
func IsLeap(year int64) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func leapIndex(year int64) int {
	if IsLeap(year) {
		return 1
	}
	return 0
}

// YearLength returns the number of days in the year.
func YearLength(year int64) int64 {
	return yearLengths[leapIndex(year)]
}

// MonthLength returns the number of days in a zero-based month of the year.
func MonthLength(year int64, month0 int) int64 {
	return monthLengths[leapIndex(year)][month0]
}

// ValidYear reports whether year is inside [MinYear, MaxYear].
func ValidYear(year int64) bool {
	return year >= MinYear && year <= MaxYear
}

// LeapsThruEndOf returns the number of leap years through the end of the
// given year, where the answer for year zero is defined as zero.
//
// Negative years mirror the count around year -1, so
// LeapsThruEndOf(-1) == -1 and differences across zero stay correct.
func LeapsThruEndOf(year int64) int64 {
	if year >= 0 {
		return year/4 - year/100 + year/400
	}
	n := -(year + 1)
	return -(n/4 - n/100 + n/400 + 1)
}

// FirstWeekday returns the weekday (0=Sunday) of the first day of a month
// (1-12) in the given year, using Zeller's congruence.
func FirstWeekday(year int64, month int) int {
	m1 := int64((month+9)%12 + 1)
	yy0 := year
	if month <= 2 {
		yy0--
	}
	yy1 := yy0 / 100
	yy2 := yy0 % 100
	dow := ((26*m1-2)/10 + 1 + yy2 + yy2/4 + yy1/4 - 2*yy1) % DaysPerWeek
	if dow < 0 {
		dow += DaysPerWeek
	}
	return int(dow)
}

// Weekday returns the weekday (0=Sunday) of the zero-based day yday of year.
func Weekday(year, yday int64) int {
	w := EpochWeekday +
		((year-EpochYear)%DaysPerWeek)*(DaysPerYear%DaysPerWeek) +
		LeapsThruEndOf(year-1) - LeapsThruEndOf(EpochYear-1) +
		yday
	w %= DaysPerWeek
	if w < 0 {
		w += DaysPerWeek
	}
	return int(w)
}

// DaysBefore returns the number of days in the year before the first day
// of the zero-based month.
func DaysBefore(year int64, month0 int) int64 {
	var d int64
	for i := 0; i < month0; i++ {
		d += MonthLength(year, i)
	}
	return d
}
