package tzif

import (
	"errors"
	"fmt"
)

// Validate checks d against the MUST requirements of RFC8536 beyond what
// decoding enforces. All violations are reported together.
func Validate(d Data) error {
	var errs []error
	if d.Wide && d.V1Header.Version != d.V2Header.Version {
		errs = append(errs, fmt.Errorf("inconsistent version: v1 header = %v, v2 header = %v", d.V1Header.Version, d.V2Header.Version))
	}
	if d.Version == V1 || d.V1Header.Typecnt > 0 {
		errs = append(errs, validateBlock("v1", d.Version, d.V1Header, d.V1Data)...)
	}
	if d.Wide {
		errs = append(errs, validateBlock("v2", d.Version, d.V2Header, d.V2Data)...)
	}
	return errors.Join(errs...)
}

func validateBlock(name string, v Version, header Header, data DataBlock) []error {
	var err []error
	add := func(format string, args ...any) {
		err = append(err, fmt.Errorf("invalid %s %s", name, fmt.Sprintf(format, args...)))
	}

	// Typecnt, Charcnt
	if header.Typecnt == 0 {
		add("typecnt: must not be zero")
	}
	if header.Charcnt == 0 {
		add("charcnt: must not be zero")
	}
	if n := len(data.TimeZoneDesignation); n > 0 && data.TimeZoneDesignation[n-1] != 0 {
		add("time zone designations: missing null terminator")
	}

	// Transitions
	for i, at := range data.TransitionTimes {
		if i > 0 && at <= data.TransitionTimes[i-1] {
			add("transition time %d (%d): not after %d", i, at, data.TransitionTimes[i-1])
		}
	}
	for i, typ := range data.TransitionTypes {
		if int32(typ) >= header.Typecnt {
			add("transition type %d (%d): must be less than typecnt (%d)", i, typ, header.Typecnt)
		}
	}

	// Local time types
	for i, r := range data.LocalTimeTypeRecord {
		if r.Dst > 1 {
			add("local time type %d: dst (%d) must be 0 or 1", i, r.Dst)
		}
		if int32(r.Idx) >= header.Charcnt {
			add("local time type %d: idx (%d) must be less than charcnt (%d)", i, r.Idx, header.Charcnt)
		}
		if r.Utoff == -1<<31 {
			add("local time type %d: utoff must not be -2**31", i)
		}
	}

	// Indicators
	for i, isstd := range data.StandardWallIndicators {
		if isstd > 1 {
			add("standard/wall indicator %d (%d): must be 0 or 1", i, isstd)
		}
	}
	for i, isut := range data.UTLocalIndicators {
		if isut > 1 {
			add("UT/local indicator %d (%d): must be 0 or 1", i, isut)
		}
		if isut == 1 && (len(data.StandardWallIndicators) <= i || data.StandardWallIndicators[i] != 1) {
			add("UT/local indicator %d: set without standard/wall indicator", i)
		}
	}

	// Leap seconds
	leaps := data.LeapSecondRecords
	for i, r := range leaps {
		if i == 0 {
			if r.Occur < 0 {
				add("leap second record 0: occurrence (%d) must be nonnegative", r.Occur)
			}
			if v < V4 && r.Corr != 1 && r.Corr != -1 {
				add("leap second record 0: correction (%d) must be 1 or -1", r.Corr)
			}
			continue
		}
		prev := leaps[i-1]
		if r.Occur-prev.Occur < 2419199 {
			add("leap second record %d: occurrence (%d) less than 28 days after %d", i, r.Occur, prev.Occur)
		}
		diff := r.Corr - prev.Corr
		expiry := v >= V4 && i == len(leaps)-1 && diff == 0
		if diff != 1 && diff != -1 && !expiry {
			add("leap second record %d: correction (%d) must differ from %d by one", i, r.Corr, prev.Corr)
		}
	}
	return err
}
