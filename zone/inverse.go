package zone

import (
	"errors"
	"fmt"
	"math"

	"github.com/ngrash/go-localtime/internal/civil"
)

// FromCivil converts civil fields in the zone to an instant. Fields need
// not be in their natural ranges; out-of-range values carry into the next
// larger field. Weekday, YearDay, Offset and Abbr are ignored on input.
// On success *tm is replaced by the normalized fields of the result.
//
// When the fields name a time that occurs twice, dst selects the
// occurrence; DSTUnspecified accepts either. When they name a time that
// does not occur, or occurs only in the other DST state, the fields are
// shifted by the offset difference between the two states and retried.
func (z *Zone) FromCivil(tm *Civil, dst DST) (int64, error) {
	return z.invert(tm, dst, z.CivilInto)
}

// FromCivilOffset converts civil fields at the fixed offset off east of UT
// to an instant, honoring the zone's leap seconds.
func (z *Zone) FromCivilOffset(tm *Civil, off int32) (int64, error) {
	return z.invert(tm, DSTOff, func(t int64, c *Civil) error {
		return z.civilOffset(t, off, c)
	})
}

type forwardFunc func(t int64, c *Civil) error

// fields is the arithmetic form of a Civil used while normalizing.
type fields struct {
	year, mon, mday, hour, min, sec int64 // mon is 0-11 once normalized
}

func (f fields) String() string {
	return fmt.Sprintf("%d-%02d-%02d %02d:%02d:%02d", f.year, f.mon+1, f.mday, f.hour, f.min, f.sec)
}

func fieldsOf(tm *Civil) (fields, error) {
	f := fields{
		year: int64(tm.Year),
		mon:  int64(tm.Month) - 1,
		mday: int64(tm.Day),
		hour: int64(tm.Hour),
		min:  int64(tm.Minute),
		sec:  int64(tm.Second),
	}
	if !civil.ValidYear(f.year) {
		return f, fmt.Errorf("%w: year %d", ErrOverflow, f.year)
	}
	for _, v := range [...]int64{f.mon, f.mday, f.hour, f.min, f.sec} {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return f, fmt.Errorf("%w: field value %d", ErrOverflow, v)
		}
	}
	return f, nil
}

func (z *Zone) invert(tm *Civil, dst DST, forward forwardFunc) (int64, error) {
	t, err := z.solveEither(tm, dst, forward)
	if err == nil || errors.Is(err, ErrOverflow) {
		return t, err
	}
	// The fields may name a time that only exists with the other DST flag.
	// Try shifting by each offset difference seen in the table.
	if dst == DSTUnspecified {
		dst = DSTOff
	}
	seen := z.seenTypes()
	for _, same := range seen {
		if z.types[same].IsDST != (dst == DSTOn) {
			continue
		}
		for _, other := range seen {
			if z.types[other].IsDST == (dst == DSTOn) {
				continue
			}
			adj := *tm
			adj.Second += int(z.types[other].Offset) - int(z.types[same].Offset)
			t, err := z.solveEither(&adj, dst.flip(), forward)
			if err == nil {
				*tm = adj
				return t, nil
			}
		}
	}
	return 0, err
}

// seenTypes lists the types used by transitions, most recent first.
func (z *Zone) seenTypes() []int {
	var seen []int
	mark := make([]bool, len(z.types))
	for i := len(z.trans) - 1; i >= 0; i-- {
		if typ := z.trans[i].Type; !mark[typ] {
			mark[typ] = true
			seen = append(seen, typ)
		}
	}
	return seen
}

// solveEither tries the fields with seconds taken literally, then with
// seconds normalized into minutes first.
func (z *Zone) solveEither(tm *Civil, dst DST, forward forwardFunc) (int64, error) {
	t, err := z.solve(tm, dst, forward, false)
	if err == nil {
		return t, nil
	}
	return z.solve(tm, dst, forward, true)
}

func (z *Zone) solve(tm *Civil, dst DST, forward forwardFunc, normSecs bool) (int64, error) {
	want, err := fieldsOf(tm)
	if err != nil {
		return 0, err
	}
	overflow := func() (int64, error) {
		return 0, fmt.Errorf("%w: normalizing %s", ErrOverflow, want)
	}
	if normSecs && !normalize32(&want.min, &want.sec, civil.SecondsPerMinute) {
		return overflow()
	}
	if !normalize32(&want.hour, &want.min, civil.MinutesPerHour) ||
		!normalize32(&want.mday, &want.hour, civil.HoursPerDay) {
		return overflow()
	}
	y := want.year
	if !civil.Normalize(&y, &want.mon, civil.MonthsPerYear) {
		return overflow()
	}
	// Bring mday into the range 1..month length, a year at a time first.
	for want.mday <= 0 {
		if !civil.AddWithin(&y, -1, civil.MinYear, civil.MaxYear) {
			return overflow()
		}
		li := y
		if want.mon > 1 {
			li++
		}
		want.mday += civil.YearLength(li)
	}
	for want.mday > civil.DaysPerLeapYear {
		li := y
		if want.mon > 1 {
			li++
		}
		want.mday -= civil.YearLength(li)
		if !civil.AddWithin(&y, 1, civil.MinYear, civil.MaxYear) {
			return overflow()
		}
	}
	for {
		i := civil.MonthLength(y, int(want.mon))
		if want.mday <= i {
			break
		}
		want.mday -= i
		want.mon++
		if want.mon >= civil.MonthsPerYear {
			want.mon = 0
			if !civil.AddWithin(&y, 1, civil.MinYear, civil.MaxYear) {
				return overflow()
			}
		}
	}
	if !civil.ValidYear(y) {
		return overflow()
	}
	want.year = y

	var saved int64
	switch {
	case 0 <= want.sec && want.sec < civil.SecondsPerMinute:
	case y < civil.EpochYear:
		// Searching for second 59 and adding back avoids trouble with
		// instants just before the earliest representable one.
		if !civil.AddWithin(&want.sec, 1-civil.SecondsPerMinute, math.MinInt32, math.MaxInt32) {
			return overflow()
		}
		saved = want.sec
		want.sec = civil.SecondsPerMinute - 1
	default:
		saved = want.sec
		want.sec = 0
	}

	t, ok := z.search(&want, dst, forward)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoSuchTime, want)
	}
	t, ok = civil.Add(t, saved)
	if !ok {
		return overflow()
	}
	var out Civil
	if err := forward(t, &out); err != nil {
		return 0, err
	}
	*tm = out
	return t, nil
}

// search finds an instant whose forward conversion has the given fields,
// by binary search over the zone's instant range.
func (z *Zone) search(want *fields, dst DST, forward forwardFunc) (int64, bool) {
	lo, hi := z.rng.Min, z.rng.Max
	var got Civil
	for {
		t := lo/2 + hi/2
		if t < lo {
			t = lo
		} else if t > hi {
			t = hi
		}
		var dir int
		if err := forward(t, &got); err != nil {
			if t > 0 {
				dir = 1
			} else {
				dir = -1
			}
		} else {
			dir = compare(&got, want)
		}
		if dir != 0 {
			if t == lo {
				if t == hi {
					return 0, false
				}
				t++
				lo++
			} else if t == hi {
				t--
				hi--
			}
			if lo > hi {
				return 0, false
			}
			if dir > 0 {
				hi = t
			} else {
				lo = t
			}
			continue
		}
		if dst.matches(got.IsDST) {
			return t, true
		}
		// Right fields, wrong DST state: look for a nearby instant of a
		// type with the wanted state that maps to the same fields.
		for i := len(z.types) - 1; i >= 0; i-- {
			if z.types[i].IsDST != (dst == DSTOn) {
				continue
			}
			for j := len(z.types) - 1; j >= 0; j-- {
				if z.types[j].IsDST == (dst == DSTOn) {
					continue
				}
				newt, ok := civil.Add(t, int64(z.types[j].Offset)-int64(z.types[i].Offset))
				if !ok {
					continue
				}
				if err := forward(newt, &got); err != nil {
					continue
				}
				if compare(&got, want) != 0 || got.IsDST != (dst == DSTOn) {
					continue
				}
				return newt, true
			}
		}
		return 0, false
	}
}

// compare orders converted fields against the wanted ones.
func compare(a *Civil, b *fields) int {
	for _, d := range [...]int64{
		int64(a.Year) - b.year,
		int64(a.Month-1) - b.mon,
		int64(a.Day) - b.mday,
		int64(a.Hour) - b.hour,
		int64(a.Minute) - b.min,
		int64(a.Second) - b.sec,
	} {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}

func normalize32(tens, units *int64, base int64) bool {
	return civil.Normalize(tens, units, base) && *tens >= math.MinInt32 && *tens <= math.MaxInt32
}
