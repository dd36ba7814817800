// Package posixtz builds zones from POSIX TZ rule strings such as
// "EST5EDT,M3.2.0,M11.1.0", including the quoted names and quasi-POSIX
// times of RFC8536 footers.
package posixtz

import (
	"fmt"

	"github.com/ngrash/go-localtime/internal/civil"
	"github.com/ngrash/go-localtime/zone"
)

// DefaultRule is the rule pair assumed for a string that names daylight
// time without rules when no default zone is available.
const DefaultRule = ",M4.1.0,M10.5.0"

// Options configure Parse.
type Options struct {
	// Defaults is the system default rule zone (posixrules). A string
	// that names daylight time without rules borrows its transitions,
	// and every parsed zone inherits its leap seconds.
	Defaults *zone.Zone
	// Range bounds generated transitions. The zero value means
	// zone.Range64.
	Range zone.Range
}

func (o Options) rangeOrDefault() zone.Range {
	if o.Range == (zone.Range{}) {
		return zone.Range64
	}
	return o.Range
}

func (o Options) leaps() []zone.LeapEntry {
	if o.Defaults == nil {
		return nil
	}
	return o.Defaults.Leaps()
}

// Parse builds a zone from rule. Offsets in rule are west of UT, as in
// POSIX; the zone's types carry them east of UT.
func Parse(rule string, opts Options) (*zone.Zone, error) {
	sc := &scanner{s: rule}
	stdName, err := sc.zoneName()
	if err != nil {
		return nil, err
	}
	if sc.eof() {
		return nil, sc.errorf("missing standard offset")
	}
	stdOff, err := sc.offset()
	if err != nil {
		return nil, err
	}

	tab := zone.Table{Range: opts.rangeOrDefault(), Leaps: opts.leaps()}
	if sc.eof() {
		tab.Types = []zone.TimeType{{Offset: -stdOff}}
		tab.Abbrs = abbrs(stdName, "")
		return build(sc, tab)
	}

	dstName, err := sc.zoneName()
	if err != nil {
		return nil, err
	}
	dstOff := stdOff - civil.SecondsPerHour
	if c := sc.peek(); !sc.eof() && c != ',' && c != ';' {
		if dstOff, err = sc.offset(); err != nil {
			return nil, err
		}
	}
	tab.Abbrs = abbrs(stdName, dstName)
	if sc.eof() && opts.Defaults == nil {
		sc = &scanner{s: DefaultRule}
	}
	switch c := sc.peek(); {
	case c == ',' || c == ';':
		sc.pos++
		start, err := sc.rule()
		if err != nil {
			return nil, err
		}
		if err := sc.expect(','); err != nil {
			return nil, err
		}
		end, err := sc.rule()
		if err != nil {
			return nil, err
		}
		if !sc.eof() {
			return nil, sc.errorf("trailing characters")
		}
		expand(&tab, start, end, stdOff, dstOff, len(stdName))
	case sc.eof():
		reexpress(&tab, opts.Defaults, stdOff, dstOff, len(stdName))
	default:
		return nil, sc.errorf("unexpected character %q", c)
	}
	return build(sc, tab)
}

func abbrs(std, dst string) []byte {
	b := append([]byte(std), 0)
	if dst != "" {
		b = append(append(b, dst...), 0)
	}
	return b
}

func build(sc *scanner, tab zone.Table) (*zone.Zone, error) {
	if len(tab.Abbrs) > zone.MaxRuleChars {
		return nil, sc.errorf("zone names exceed %d bytes", zone.MaxRuleChars)
	}
	z, err := zone.New(tab)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", zone.ErrRuleSyntax, sc.s, err)
	}
	return z, nil
}

// expand generates two transitions per year from the epoch year on.
// Types are [daylight, standard]. The window extends a full repeat period
// past every year that produced transitions, up to the table capacity.
func expand(tab *zone.Table, start, end rule, stdOff, dstOff int32, stdLen int) {
	tab.Types = []zone.TimeType{
		{Offset: -dstOff, IsDST: true, AbbrIndex: stdLen + 1},
		{Offset: -stdOff, AbbrIndex: 0},
	}
	rng := tab.Range
	var janFirst int64
	yearLim := int64(civil.EpochYear + civil.YearsPerRepeat)
	for year := int64(civil.EpochYear); year < yearLim; year++ {
		startTime := start.transTime(year, stdOff)
		endTime := end.transTime(year, dstOff)
		yearSecs := civil.YearLength(year) * civil.SecondsPerDay
		// A reversed pair is a southern-hemisphere rule: daylight time
		// spans the new year.
		reversed := endTime < startTime
		if reversed {
			startTime, endTime = endTime, startTime
		}
		if reversed || (startTime < endTime && endTime-startTime < yearSecs+int64(stdOff-dstOff)) {
			if len(tab.Transitions) > zone.MaxTimes-2 {
				break
			}
			yearLim = year + civil.YearsPerRepeat + 1
			at := janFirst
			if !civil.AddWithin(&at, startTime, rng.Min, rng.Max) {
				break
			}
			appendTransition(tab, at, b2i(reversed))
			at = janFirst
			if !civil.AddWithin(&at, endTime, rng.Min, rng.Max) {
				break
			}
			appendTransition(tab, at, b2i(!reversed))
		}
		if !civil.AddWithin(&janFirst, yearSecs, rng.Min, rng.Max) {
			break
		}
	}
	if len(tab.Transitions) == 0 {
		// Perpetual daylight time.
		tab.Types = tab.Types[:1]
	}
}

// reexpress re-expresses the transitions of the default zone in the new
// standard and daylight offsets. Types are [standard, daylight].
func reexpress(tab *zone.Table, defaults *zone.Zone, stdOff, dstOff int32, stdLen int) {
	tab.Types = []zone.TimeType{
		{Offset: -stdOff, AbbrIndex: 0},
		{Offset: -dstOff, IsDST: true, AbbrIndex: stdLen + 1},
	}
	types, trans := defaults.Types(), defaults.Transitions()
	// The offsets the default zone's transition times were written in,
	// west of UT, starting from the first standard and daylight types.
	var theirStd, theirDST int64
	for _, tr := range trans {
		if !types[tr.Type].IsDST {
			theirStd = -int64(types[tr.Type].Offset)
			break
		}
	}
	for _, tr := range trans {
		if types[tr.Type].IsDST {
			theirDST = -int64(types[tr.Type].Offset)
			break
		}
	}
	isDST := false
	for _, tr := range trans {
		tt := types[tr.Type]
		at := tr.At
		if !tt.IsUT {
			// Move the transition from their offsets to ours. Times
			// given in UT stay put.
			delta := int64(stdOff) - theirStd
			if isDST && !tt.IsStd {
				delta = int64(dstOff) - theirDST
			}
			var ok bool
			if at, ok = civil.Add(at, delta); !ok {
				break
			}
		}
		appendTransition(tab, at, b2i(tt.IsDST))
		if tt.IsDST {
			theirDST = -int64(tt.Offset)
		} else {
			theirStd = -int64(tt.Offset)
		}
		isDST = tt.IsDST
	}
}

// appendTransition adds a transition. One at the same instant as the
// previous replaces it.
func appendTransition(tab *zone.Table, at int64, typ int) {
	if n := len(tab.Transitions); n > 0 && tab.Transitions[n-1].At == at {
		tab.Transitions[n-1].Type = typ
		return
	}
	tab.Transitions = append(tab.Transitions, zone.Transition{At: at, Type: typ})
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// LastDitch returns a zone with a single standard type at offset zero
// labeled name, truncated to fit. It inherits the leap seconds of
// opts.Defaults and never fails for names that fit.
func LastDitch(name string, opts Options) (*zone.Zone, error) {
	if len(name) >= zone.MaxRuleChars {
		name = name[:zone.MaxRuleChars-1]
	}
	return zone.New(zone.Table{
		Types: []zone.TimeType{{Offset: 0}},
		Leaps: opts.leaps(),
		Abbrs: abbrs(name, ""),
		Range: opts.rangeOrDefault(),
	})
}
