package posixtz

import (
	"fmt"

	"github.com/ngrash/go-localtime/internal/civil"
	"github.com/ngrash/go-localtime/zone"
)

// SyntaxError reports a malformed rule string. It wraps
// zone.ErrRuleSyntax.
type SyntaxError struct {
	Rule string
	// Pos is the byte offset at which parsing stopped.
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("posixtz: %s at offset %d in %q", e.Msg, e.Pos, e.Rule)
}

func (e *SyntaxError) Unwrap() error { return zone.ErrRuleSyntax }

type scanner struct {
	s   string
	pos int
}

func (sc *scanner) errorf(format string, args ...any) error {
	return &SyntaxError{Rule: sc.s, Pos: sc.pos, Msg: fmt.Sprintf(format, args...)}
}

func (sc *scanner) eof() bool { return sc.pos >= len(sc.s) }

func (sc *scanner) peek() byte {
	if sc.eof() {
		return 0
	}
	return sc.s[sc.pos]
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// zoneName scans a bare name, which ends at a digit, a comma or a sign,
// or a name quoted in angle brackets.
func (sc *scanner) zoneName() (string, error) {
	if sc.peek() == '<' {
		sc.pos++
		start := sc.pos
		for !sc.eof() && sc.s[sc.pos] != '>' {
			sc.pos++
		}
		if sc.eof() {
			return "", sc.errorf("unterminated quoted zone name")
		}
		name := sc.s[start:sc.pos]
		sc.pos++
		if name == "" {
			return "", sc.errorf("empty zone name")
		}
		return name, nil
	}
	start := sc.pos
	for !sc.eof() {
		c := sc.s[sc.pos]
		if isDigit(c) || c == ',' || c == '-' || c == '+' {
			break
		}
		sc.pos++
	}
	if sc.pos == start {
		return "", sc.errorf("empty zone name")
	}
	return sc.s[start:sc.pos], nil
}

// num scans a decimal number in [lo, hi].
func (sc *scanner) num(lo, hi int) (int, error) {
	if !isDigit(sc.peek()) {
		return 0, sc.errorf("expected a number")
	}
	n := 0
	for isDigit(sc.peek()) {
		n = n*10 + int(sc.s[sc.pos]-'0')
		if n > hi {
			return 0, sc.errorf("number out of range [%d, %d]", lo, hi)
		}
		sc.pos++
	}
	if n < lo {
		return 0, sc.errorf("number out of range [%d, %d]", lo, hi)
	}
	return n, nil
}

// secs scans hh[:mm[:ss]]. Hours go up to 167 so that rules can name a
// time in the following week, and seconds up to 60 for a leap second.
func (sc *scanner) secs() (int32, error) {
	h, err := sc.num(0, civil.HoursPerDay*civil.DaysPerWeek-1)
	if err != nil {
		return 0, err
	}
	secs := int32(h) * civil.SecondsPerHour
	if sc.peek() != ':' {
		return secs, nil
	}
	sc.pos++
	m, err := sc.num(0, civil.MinutesPerHour-1)
	if err != nil {
		return 0, err
	}
	secs += int32(m) * civil.SecondsPerMinute
	if sc.peek() != ':' {
		return secs, nil
	}
	sc.pos++
	s, err := sc.num(0, civil.SecondsPerMinute)
	if err != nil {
		return 0, err
	}
	return secs + int32(s), nil
}

// offset scans [+-]hh[:mm[:ss]].
func (sc *scanner) offset() (int32, error) {
	neg := false
	switch sc.peek() {
	case '-':
		neg = true
		sc.pos++
	case '+':
		sc.pos++
	}
	secs, err := sc.secs()
	if err != nil {
		return 0, err
	}
	if neg {
		secs = -secs
	}
	return secs, nil
}

// rule scans date[/time].
func (sc *scanner) rule() (rule, error) {
	var r rule
	var err error
	switch c := sc.peek(); {
	case c == 'J':
		sc.pos++
		r.kind = julianDay
		r.day, err = sc.num(1, civil.DaysPerYear)
	case c == 'M':
		sc.pos++
		r.kind = monthWeekDay
		if r.month, err = sc.num(1, civil.MonthsPerYear); err != nil {
			return r, err
		}
		if err = sc.expect('.'); err != nil {
			return r, err
		}
		if r.week, err = sc.num(1, 5); err != nil {
			return r, err
		}
		if err = sc.expect('.'); err != nil {
			return r, err
		}
		r.day, err = sc.num(0, civil.DaysPerWeek-1)
	case isDigit(c):
		r.kind = dayOfYear
		r.day, err = sc.num(0, civil.DaysPerLeapYear-1)
	default:
		return r, sc.errorf("invalid rule date")
	}
	if err != nil {
		return r, err
	}
	r.time = 2 * civil.SecondsPerHour
	if sc.peek() == '/' {
		sc.pos++
		r.time, err = sc.offset()
	}
	return r, err
}

func (sc *scanner) expect(c byte) error {
	if sc.peek() != c {
		return sc.errorf("expected %q", c)
	}
	sc.pos++
	return nil
}
