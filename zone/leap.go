package zone

import (
	"fmt"

	"github.com/ngrash/go-localtime/internal/civil"
)

func (z *Zone) leapCorr(t int64) int64 {
	for i := len(z.leaps) - 1; i >= 0; i-- {
		if t >= z.leaps[i].At {
			return z.leaps[i].Corr
		}
	}
	return 0
}

// Time2Posix converts a leap-second-counting instant t to the POSIX count
// that ignores leap seconds.
func (z *Zone) Time2Posix(t int64) (int64, error) {
	p, ok := civil.Add(t, -z.leapCorr(t))
	if !ok {
		return 0, fmt.Errorf("%w: instant %d", ErrOverflow, t)
	}
	return p, nil
}

// Posix2Time is the inverse of Time2Posix. For a POSIX count that names an
// inserted leap second it returns the later of the two candidates.
func (z *Zone) Posix2Time(t int64) (int64, error) {
	x, ok := civil.Add(t, z.leapCorr(t))
	if !ok {
		return 0, fmt.Errorf("%w: instant %d", ErrOverflow, t)
	}
	y := x - z.leapCorr(x)
	switch {
	case y < t:
		for y < t {
			x++
			y = x - z.leapCorr(x)
		}
		if t != y {
			return x - 1, nil
		}
	case y > t:
		for y > t {
			x--
			y = x - z.leapCorr(x)
		}
		if t != y {
			return x + 1, nil
		}
	}
	return x, nil
}
