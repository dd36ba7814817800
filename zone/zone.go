// Package zone models a parsed time zone (its local time types, transition
// history and leap-second table) and converts between instants and civil
// time within it.
//
// A Zone is built once from a Table by New and is immutable afterwards; it
// is safe for concurrent use. Producers of tables live in sibling packages:
// zoneinfo decodes TZif data and posixtz parses POSIX-style rule strings.
package zone

import (
	"fmt"
	"math"
	"sort"

	"github.com/ngrash/go-localtime/internal/civil"
)

// Fixed capacities of a zone's tables. Producers reject input exceeding
// them rather than truncating it.
const (
	MaxLeaps = 50
	MaxTypes = 256
	MaxTimes = 1200
	// MaxChars bounds the abbreviation bytes of binary zone data.
	MaxChars = 50
	// MaxRuleChars bounds the abbreviation bytes of a rule-string zone:
	// two names of up to 255 bytes, each NUL terminated.
	MaxRuleChars = 2 * (255 + 1)
	// MaxAbbrLen is the longest abbreviation kept; longer ones are cut.
	MaxAbbrLen = 16
)

// Range is the representable instant range of a host model. Bits is the
// instant width in bits and decides whether wide TZif sections are read.
type Range struct {
	Min, Max int64
	Bits     int
}

var (
	// Range64 is the range of a signed 64-bit instant, the default.
	Range64 = Range{Min: math.MinInt64, Max: math.MaxInt64, Bits: 64}
	// Range32 is the range of a signed 32-bit instant.
	Range32 = Range{Min: math.MinInt32, Max: math.MaxInt32, Bits: 32}
	// RangeUint32 is the range of an unsigned 32-bit instant.
	RangeUint32 = Range{Min: 0, Max: math.MaxUint32, Bits: 32}
)

// Contains reports whether t is representable.
func (r Range) Contains(t int64) bool {
	return r.Min <= t && t <= r.Max
}

func (r Range) orDefault() Range {
	if r == (Range{}) {
		return Range64
	}
	return r
}

// TimeType is a local time type: an offset from UT and how to label it.
type TimeType struct {
	// Offset is the number of seconds to add to UT to get local time.
	Offset int32
	IsDST  bool
	// AbbrIndex is the byte index of the NUL-terminated abbreviation.
	AbbrIndex int
	// IsStd and IsUT record whether transitions into this type were
	// specified in standard or UT time. Only rule-string normalization
	// consults them.
	IsStd bool
	IsUT  bool
}

// Transition is an instant at which the local time type changes.
type Transition struct {
	At   int64
	Type int
}

// LeapEntry is a leap-second table entry. Corr is the cumulative
// correction in effect from At onwards.
type LeapEntry struct {
	At   int64
	Corr int64
}

// Table is the mutable form of a zone, filled in by a producer and turned
// into a Zone by New.
type Table struct {
	Types       []TimeType
	Transitions []Transition
	Leaps       []LeapEntry
	// Abbrs holds NUL-terminated abbreviations indexed by TimeType.AbbrIndex.
	Abbrs []byte
	// Range is the instant range the table was produced for. The zero
	// value means Range64.
	Range Range
}

// Zone is an immutable, validated zone.
type Zone struct {
	types       []TimeType
	trans       []Transition
	leaps       []LeapEntry
	abbrs       []byte
	rng         Range
	defaultType int
	goBack      bool
	goAhead     bool
}

// New validates t and builds a Zone from a copy of it. The abbreviation
// buffer gets a trailing NUL if it lacks one and is scrubbed of unsafe
// characters; the default type and the extrapolation flags are derived.
func New(t Table) (*Zone, error) {
	if err := check(t); err != nil {
		return nil, err
	}
	z := &Zone{
		types: append([]TimeType(nil), t.Types...),
		trans: append([]Transition(nil), t.Transitions...),
		leaps: append([]LeapEntry(nil), t.Leaps...),
		abbrs: append([]byte(nil), t.Abbrs...),
		rng:   t.Range.orDefault(),
	}
	if len(z.abbrs) == 0 || z.abbrs[len(z.abbrs)-1] != 0 {
		z.abbrs = append(z.abbrs, 0)
	}
	z.scrubAbbrs()
	z.goBack, z.goAhead = z.repeats()
	z.defaultType = z.chooseDefault()
	return z, nil
}

func check(t Table) error {
	switch {
	case len(t.Types) == 0:
		return fmt.Errorf("%w: no local time types", ErrFormat)
	case len(t.Types) > MaxTypes:
		return fmt.Errorf("%w: %d local time types exceed %d", ErrFormat, len(t.Types), MaxTypes)
	case len(t.Transitions) > MaxTimes:
		return fmt.Errorf("%w: %d transitions exceed %d", ErrFormat, len(t.Transitions), MaxTimes)
	case len(t.Leaps) > MaxLeaps:
		return fmt.Errorf("%w: %d leap entries exceed %d", ErrFormat, len(t.Leaps), MaxLeaps)
	case len(t.Abbrs) > MaxRuleChars+1:
		return fmt.Errorf("%w: %d abbreviation bytes exceed %d", ErrFormat, len(t.Abbrs), MaxRuleChars+1)
	}
	nabbr := max(len(t.Abbrs), 1)
	for i, tt := range t.Types {
		if tt.AbbrIndex < 0 || tt.AbbrIndex >= nabbr {
			return fmt.Errorf("%w: type %d abbreviation index %d out of range", ErrFormat, i, tt.AbbrIndex)
		}
	}
	for i, tr := range t.Transitions {
		if tr.Type < 0 || tr.Type >= len(t.Types) {
			return fmt.Errorf("%w: transition %d type %d out of range", ErrFormat, i, tr.Type)
		}
		if i > 0 && tr.At <= t.Transitions[i-1].At {
			return fmt.Errorf("%w: transition %d at %d not after %d", ErrFormat, i, tr.At, t.Transitions[i-1].At)
		}
	}
	for i := 1; i < len(t.Leaps); i++ {
		if t.Leaps[i].At <= t.Leaps[i-1].At {
			return fmt.Errorf("%w: leap entry %d at %d not after %d", ErrFormat, i, t.Leaps[i].At, t.Leaps[i-1].At)
		}
	}
	return nil
}

// UTC returns a zone with a single standard type at offset zero.
func UTC() *Zone {
	z, err := New(Table{
		Types: []TimeType{{Offset: 0}},
		Abbrs: []byte("UTC\x00"),
	})
	if err != nil {
		panic(err)
	}
	return z
}

// Types returns a copy of the zone's local time types.
func (z *Zone) Types() []TimeType { return append([]TimeType(nil), z.types...) }

// Transitions returns a copy of the zone's transitions.
func (z *Zone) Transitions() []Transition { return append([]Transition(nil), z.trans...) }

// Leaps returns a copy of the zone's leap-second table.
func (z *Zone) Leaps() []LeapEntry { return append([]LeapEntry(nil), z.leaps...) }

// Range returns the instant range the zone was produced for.
func (z *Zone) Range() Range { return z.rng }

// DefaultType is the type in effect before the first transition, or always
// if there are none.
func (z *Zone) DefaultType() int { return z.defaultType }

// GoBack reports whether instants before the first transition are
// converted by shifting them into the table by whole 400-year cycles.
func (z *Zone) GoBack() bool { return z.goBack }

// GoAhead is GoBack for instants after the last transition.
func (z *Zone) GoAhead() bool { return z.goAhead }

// Table returns a copy of the zone in its mutable form.
func (z *Zone) Table() Table {
	return Table{
		Types:       z.Types(),
		Transitions: z.Transitions(),
		Leaps:       z.Leaps(),
		Abbrs:       append([]byte(nil), z.abbrs...),
		Range:       z.rng,
	}
}

// Abbr returns the abbreviation of local time type i.
func (z *Zone) Abbr(i int) string {
	return z.abbrAt(z.types[i].AbbrIndex)
}

func (z *Zone) abbrAt(idx int) string {
	end := idx
	for end < len(z.abbrs) && z.abbrs[end] != 0 {
		end++
	}
	return string(z.abbrs[idx:end])
}

// lookup returns the type in effect at t within the explicit table.
func (z *Zone) lookup(t int64) int {
	i := sort.Search(len(z.trans), func(i int) bool { return z.trans[i].At > t })
	if i == 0 {
		return z.defaultType
	}
	return z.trans[i-1].Type
}

// equivalent reports whether types a and b are indistinguishable.
func (z *Zone) equivalent(a, b int) bool {
	ta, tb := z.types[a], z.types[b]
	return ta.Offset == tb.Offset &&
		ta.IsDST == tb.IsDST &&
		ta.IsStd == tb.IsStd &&
		ta.IsUT == tb.IsUT &&
		z.abbrAt(ta.AbbrIndex) == z.abbrAt(tb.AbbrIndex)
}

func differByRepeat(t1, t0 int64) bool {
	return t1 > t0 && uint64(t1)-uint64(t0) == civil.SecondsPerRepeat
}

func (z *Zone) repeats() (goBack, goAhead bool) {
	n := len(z.trans)
	if n < 2 {
		return false, false
	}
	first, last := z.trans[0], z.trans[n-1]
	for i := 1; i < n; i++ {
		if z.equivalent(z.trans[i].Type, first.Type) && differByRepeat(z.trans[i].At, first.At) {
			goBack = true
			break
		}
	}
	for i := n - 2; i >= 0; i-- {
		if z.equivalent(last.Type, z.trans[i].Type) && differByRepeat(last.At, z.trans[i].At) {
			goAhead = true
			break
		}
	}
	return goBack, goAhead
}

func (z *Zone) chooseDefault() int {
	// Type 0 is the type for early times unless a transition uses it.
	used := false
	for _, tr := range z.trans {
		if tr.Type == 0 {
			used = true
			break
		}
	}
	if !used {
		return 0
	}
	// If the first transition is into daylight time, use the closest
	// lower-numbered standard type.
	if len(z.trans) > 0 && z.types[z.trans[0].Type].IsDST {
		for i := z.trans[0].Type - 1; i >= 0; i-- {
			if !z.types[i].IsDST {
				return i
			}
		}
	}
	for i, tt := range z.types {
		if !tt.IsDST {
			return i
		}
	}
	return 0
}
