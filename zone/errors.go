package zone

import "errors"

// Every failure reported by this module wraps one of these sentinels, so
// callers can classify it with errors.Is.
var (
	// ErrIO means zone data could not be located or read.
	ErrIO = errors.New("zone data unavailable")
	// ErrFormat means binary zone data is structurally invalid.
	ErrFormat = errors.New("malformed zone data")
	// ErrRuleSyntax means a POSIX-style rule string is malformed.
	ErrRuleSyntax = errors.New("malformed zone rule")
	// ErrOverflow means date arithmetic left the representable range.
	ErrOverflow = errors.New("time out of range")
	// ErrNoSuchTime means civil fields match no instant, or match only
	// instants whose DST flag contradicts the requested one.
	ErrNoSuchTime = errors.New("civil time does not exist in zone")
)
