package zone

import (
	"fmt"
	"math"
	"time"

	"github.com/ngrash/go-localtime/internal/civil"
)

// Civil converts the instant t to civil time in the zone.
func (z *Zone) Civil(t int64) (Civil, error) {
	var c Civil
	if err := z.CivilInto(t, &c); err != nil {
		return Civil{}, err
	}
	return c, nil
}

// CivilInto is Civil writing into caller storage. On error *c is left
// unspecified.
func (z *Zone) CivilInto(t int64, c *Civil) error {
	n := len(z.trans)
	if n > 0 && ((z.goBack && t < z.trans[0].At) || (z.goAhead && t > z.trans[n-1].At)) {
		return z.extrapolate(t, c)
	}
	tt := z.types[z.lookup(t)]
	if err := z.breakDown(t, tt.Offset, c); err != nil {
		return err
	}
	c.IsDST = tt.IsDST
	c.Abbr = z.abbrAt(tt.AbbrIndex)
	return nil
}

// CivilOffset converts t to civil time at the fixed offset off east of UT,
// still honoring the zone's leap seconds. The abbreviation is the zone's
// first one at offset zero and three spaces otherwise.
func (z *Zone) CivilOffset(t int64, off int32) (Civil, error) {
	var c Civil
	if err := z.civilOffset(t, off, &c); err != nil {
		return Civil{}, err
	}
	return c, nil
}

func (z *Zone) civilOffset(t int64, off int32, c *Civil) error {
	if err := z.breakDown(t, off, c); err != nil {
		return err
	}
	if off == 0 {
		c.Abbr = z.abbrAt(0)
	} else {
		c.Abbr = wildAbbr
	}
	return nil
}

// extrapolate converts an instant outside a repeating table by moving it
// into the table by whole 400-year cycles and moving the year back.
func (z *Zone) extrapolate(t int64, c *Civil) error {
	first, last := z.trans[0].At, z.trans[len(z.trans)-1].At
	var dist uint64
	if t < first {
		dist = uint64(first) - uint64(t)
	} else {
		dist = uint64(t) - uint64(last)
	}
	cycles := int64((dist-1)/civil.SecondsPerRepeat + 1)
	shift, ok := civil.Mul(cycles, civil.SecondsPerRepeat)
	if !ok {
		return fmt.Errorf("%w: instant %d", ErrOverflow, t)
	}
	years := cycles * civil.YearsPerRepeat
	if t > last {
		shift, years = -shift, -years
	}
	newt, ok := civil.Add(t, shift)
	if !ok || newt < first || newt > last {
		return fmt.Errorf("%w: instant %d", ErrOverflow, t)
	}
	if err := z.CivilInto(newt, c); err != nil {
		return err
	}
	y := int64(c.Year) - years
	if !civil.ValidYear(y) {
		return fmt.Errorf("%w: year of instant %d", ErrOverflow, t)
	}
	c.Year = int(y)
	return nil
}

// leapCorrection returns the cumulative leap correction in effect at t and
// how many leap seconds t itself is in.
func (z *Zone) leapCorrection(t int64) (corr, hit int64) {
	for i := len(z.leaps) - 1; i >= 0; i-- {
		lp := z.leaps[i]
		if t < lp.At {
			continue
		}
		if t == lp.At && (i == 0 && lp.Corr > 0 || i > 0 && lp.Corr > z.leaps[i-1].Corr) {
			hit = 1
			for i > 0 && z.leaps[i].At == z.leaps[i-1].At+1 && z.leaps[i].Corr == z.leaps[i-1].Corr+1 {
				hit++
				i--
			}
		}
		return lp.Corr, hit
	}
	return 0, 0
}

// breakDown fills c with the calendar fields of t at offset off. IsDST and
// Abbr are left for the caller.
func (z *Zone) breakDown(t int64, off int32, c *Civil) error {
	corr, hit := z.leapCorrection(t)
	y := int64(civil.EpochYear)
	tdays := t / civil.SecondsPerDay
	rem := t % civil.SecondsPerDay
	for tdays < 0 || tdays >= civil.YearLength(y) {
		tdelta := tdays / civil.DaysPerLeapYear
		if tdelta < math.MinInt32 || tdelta > math.MaxInt32 {
			return fmt.Errorf("%w: instant %d", ErrOverflow, t)
		}
		idelta := tdelta
		if idelta == 0 {
			idelta = 1
			if tdays < 0 {
				idelta = -1
			}
		}
		newy := y
		if !civil.AddWithin(&newy, idelta, math.MinInt32, math.MaxInt32) {
			return fmt.Errorf("%w: instant %d", ErrOverflow, t)
		}
		leapdays := civil.LeapsThruEndOf(newy-1) - civil.LeapsThruEndOf(y-1)
		tdays -= (newy - y) * civil.DaysPerYear
		tdays -= leapdays
		y = newy
	}
	idays := tdays
	rem += int64(off) - corr
	for rem < 0 {
		rem += civil.SecondsPerDay
		idays--
	}
	for rem >= civil.SecondsPerDay {
		rem -= civil.SecondsPerDay
		idays++
	}
	for idays < 0 {
		if !civil.AddWithin(&y, -1, math.MinInt32, math.MaxInt32) {
			return fmt.Errorf("%w: instant %d", ErrOverflow, t)
		}
		idays += civil.YearLength(y)
	}
	for idays >= civil.YearLength(y) {
		idays -= civil.YearLength(y)
		if !civil.AddWithin(&y, 1, math.MinInt32, math.MaxInt32) {
			return fmt.Errorf("%w: instant %d", ErrOverflow, t)
		}
	}
	if !civil.ValidYear(y) {
		return fmt.Errorf("%w: year %d of instant %d", ErrOverflow, y, t)
	}
	c.Year = int(y)
	c.YearDay = int(idays) + 1
	c.Weekday = time.Weekday(civil.Weekday(y, idays))
	c.Hour = int(rem / civil.SecondsPerHour)
	rem %= civil.SecondsPerHour
	c.Minute = int(rem / civil.SecondsPerMinute)
	c.Second = int(rem%civil.SecondsPerMinute + hit)
	m := 0
	for idays >= civil.MonthLength(y, m) {
		idays -= civil.MonthLength(y, m)
		m++
	}
	c.Month = m + 1
	c.Day = int(idays) + 1
	c.IsDST = false
	c.Offset = off
	return nil
}
