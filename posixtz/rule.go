package posixtz

import "github.com/ngrash/go-localtime/internal/civil"

type ruleKind int

const (
	julianDay    ruleKind = iota // Jn
	dayOfYear                    // n
	monthWeekDay                 // Mm.w.d
)

type rule struct {
	kind  ruleKind
	day   int // Julian day, day of year, or weekday
	week  int
	month int
	time  int32 // seconds after local midnight, may be negative
}

// transTime returns the year-relative UT instant at which r takes effect
// in year, given the offset west of UT in force just before.
func (r rule) transTime(year int64, offset int32) int64 {
	var value int64
	switch r.kind {
	case julianDay:
		// J60 is March 1 even in leap years.
		value = int64(r.day-1) * civil.SecondsPerDay
		if civil.IsLeap(year) && r.day >= 60 {
			value += civil.SecondsPerDay
		}
	case dayOfYear:
		value = int64(r.day) * civil.SecondsPerDay
	case monthWeekDay:
		d := r.day - civil.FirstWeekday(year, r.month)
		if d < 0 {
			d += civil.DaysPerWeek
		}
		// Week 5 means the last such weekday of the month.
		for i := 1; i < r.week; i++ {
			if int64(d+civil.DaysPerWeek) >= civil.MonthLength(year, r.month-1) {
				break
			}
			d += civil.DaysPerWeek
		}
		value = (int64(d) + civil.DaysBefore(year, r.month-1)) * civil.SecondsPerDay
	}
	return value + int64(r.time) + int64(offset)
}
