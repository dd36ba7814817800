// Package zoneinfo loads compiled zone files (TZif) into zones.
//
// Only the section matching the host instant width is used. Transitions
// the host cannot represent are dropped, and a version 2+ footer rule
// extends the table past its last explicit transition.
package zoneinfo

import (
	"fmt"

	"github.com/ngrash/go-localtime/posixtz"
	"github.com/ngrash/go-localtime/tzif"
	"github.com/ngrash/go-localtime/zone"
)

// Options controls how zone data is interpreted.
type Options struct {
	// Range is the host instant range. The zero value means zone.Range64.
	Range zone.Range
	// NoExtend skips the footer rule.
	NoExtend bool
}

func (o Options) rangeOrDefault() zone.Range {
	if o.Range == (zone.Range{}) {
		return zone.Range64
	}
	return o.Range
}

// wide reports whether the 64-bit section applies. Unsigned 32-bit hosts
// read it too, since the version 1 section cannot express their upper half.
func wide(r zone.Range) bool {
	return r.Bits > 32 || r.Min == 0
}

// Load resolves name and parses the bytes it names.
func Load(name string, r Resolver, opts Options) (*zone.Zone, error) {
	data, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	z, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("zoneinfo: %s: %w", name, err)
	}
	return z, nil
}

// Parse builds a zone from TZif bytes. Malformed data wraps
// zone.ErrFormat.
func Parse(data []byte, opts Options) (*zone.Zone, error) {
	rng := opts.rangeOrDefault()
	d, err := tzif.Decode(data, wide(rng))
	if err != nil {
		return nil, err
	}
	h, b := d.Block()
	if err := checkLimits(h); err != nil {
		return nil, err
	}

	tab := zone.Table{Range: rng}
	if tab.Types, err = types(b); err != nil {
		return nil, err
	}
	if tab.Transitions, err = transitions(b, rng); err != nil {
		return nil, err
	}
	tab.Abbrs = append([]byte(nil), b.TimeZoneDesignation...)
	for _, l := range b.LeapSecondRecords {
		tab.Leaps = append(tab.Leaps, zone.LeapEntry{At: l.Occur, Corr: int64(l.Corr)})
	}

	if !opts.NoExtend && d.HasFooter && len(tab.Types)+2 <= zone.MaxTypes {
		extend(&tab, string(d.V2Footer.TZString))
	}
	return zone.New(tab)
}

func checkLimits(h tzif.Header) error {
	switch {
	case h.Leapcnt > zone.MaxLeaps:
		return fmt.Errorf("%w: leapcnt %d exceeds %d", zone.ErrFormat, h.Leapcnt, zone.MaxLeaps)
	case h.Typecnt > zone.MaxTypes:
		return fmt.Errorf("%w: typecnt %d exceeds %d", zone.ErrFormat, h.Typecnt, zone.MaxTypes)
	case h.Timecnt > zone.MaxTimes:
		return fmt.Errorf("%w: timecnt %d exceeds %d", zone.ErrFormat, h.Timecnt, zone.MaxTimes)
	case h.Charcnt > zone.MaxChars:
		return fmt.Errorf("%w: charcnt %d exceeds %d", zone.ErrFormat, h.Charcnt, zone.MaxChars)
	}
	return nil
}

func types(b tzif.DataBlock) ([]zone.TimeType, error) {
	out := make([]zone.TimeType, len(b.LocalTimeTypeRecord))
	for i, r := range b.LocalTimeTypeRecord {
		if r.Dst > 1 {
			return nil, fmt.Errorf("%w: type %d: dst must be 0 or 1, got %d", zone.ErrFormat, i, r.Dst)
		}
		if int(r.Idx) >= len(b.TimeZoneDesignation) {
			return nil, fmt.Errorf("%w: type %d: designation index %d out of range", zone.ErrFormat, i, r.Idx)
		}
		out[i] = zone.TimeType{Offset: r.Utoff, IsDST: r.Dst == 1, AbbrIndex: int(r.Idx)}
	}
	for i, v := range b.StandardWallIndicators {
		if v > 1 {
			return nil, fmt.Errorf("%w: standard/wall indicator %d: got %d", zone.ErrFormat, i, v)
		}
		out[i].IsStd = v == 1
	}
	for i, v := range b.UTLocalIndicators {
		if v > 1 {
			return nil, fmt.Errorf("%w: UT/local indicator %d: got %d", zone.ErrFormat, i, v)
		}
		out[i].IsUT = v == 1
	}
	return out, nil
}

// transitions keeps the transitions inside rng. When earlier ones were
// dropped, the type in force at rng.Min is kept as a transition there.
func transitions(b tzif.DataBlock, rng zone.Range) ([]zone.Transition, error) {
	var out []zone.Transition
	for i, at := range b.TransitionTimes {
		typ := int(b.TransitionTypes[i])
		if typ >= len(b.LocalTimeTypeRecord) {
			return nil, fmt.Errorf("%w: transition %d: type %d out of range", zone.ErrFormat, i, typ)
		}
		if !rng.Contains(at) {
			continue
		}
		if i > 0 && len(out) == 0 && at != rng.Min {
			out = append(out, zone.Transition{At: rng.Min, Type: int(b.TransitionTypes[i-1])})
		}
		out = append(out, zone.Transition{At: at, Type: typ})
	}
	return out, nil
}

// extend appends the footer rule's types and its transitions after the
// last explicit one. Rules that fail to parse, or that do not yield
// exactly a standard and a daylight type, are ignored.
func extend(tab *zone.Table, footer string) {
	fz, err := posixtz.Parse(footer, posixtz.Options{Range: tab.Range})
	if err != nil {
		return
	}
	ft := fz.Table()
	if len(ft.Types) != 2 || len(tab.Abbrs)+len(ft.Abbrs) > zone.MaxChars {
		return
	}
	base := len(tab.Types)
	offset := len(tab.Abbrs)
	tab.Abbrs = append(tab.Abbrs, ft.Abbrs...)

	var last int64
	if n := len(tab.Transitions); n > 0 {
		last = tab.Transitions[n-1].At
	}
	for _, tr := range ft.Transitions {
		if len(tab.Transitions) >= zone.MaxTimes {
			break
		}
		if len(tab.Transitions) > 0 && tr.At <= last {
			continue
		}
		tab.Transitions = append(tab.Transitions, zone.Transition{At: tr.At, Type: base + tr.Type})
	}
	for _, tt := range ft.Types {
		tt.AbbrIndex += offset
		tab.Types = append(tab.Types, tt)
	}
}
