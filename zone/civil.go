package zone

import (
	"fmt"
	"time"
)

// Civil is a broken-down calendar time in some zone.
type Civil struct {
	Year   int
	Month  int // 1-12
	Day    int // 1-31
	Hour   int
	Minute int
	// Second is 0-59, or 60 and above during a positive leap second.
	Second  int
	Weekday time.Weekday
	YearDay int // 1-366
	IsDST   bool
	// Offset is the number of seconds east of UT in effect.
	Offset int32
	Abbr   string
}

// String formats c as "2006-01-02 15:04:05 MST", keeping a leap second
// and years beyond four digits as they are.
func (c Civil) String() string {
	s := fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second)
	if c.Abbr != "" {
		s += " " + c.Abbr
	}
	return s
}

// DST is the caller's belief about daylight time for an inverse
// conversion.
type DST int8

const (
	DSTUnspecified DST = -1
	DSTOff         DST = 0
	DSTOn          DST = 1
)

func (d DST) matches(isDST bool) bool {
	return d == DSTUnspecified || (d == DSTOn) == isDST
}

func (d DST) flip() DST {
	if d == DSTOn {
		return DSTOff
	}
	return DSTOn
}

func (d DST) String() string {
	switch d {
	case DSTUnspecified:
		return "unspecified"
	case DSTOff:
		return "off"
	case DSTOn:
		return "on"
	}
	return fmt.Sprintf("DST(%d)", int8(d))
}
