package zone

import "strings"

// abbrChars are the bytes allowed in an abbreviation. NUL terminators are
// kept as they are.
const abbrChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 :+-._"

// grandparented is exempt from the length limit.
const grandparented = "Local time zone must be set--see zic manual page"

func (z *Zone) scrubAbbrs() {
	for i, b := range z.abbrs {
		if b != 0 && strings.IndexByte(abbrChars, b) < 0 {
			z.abbrs[i] = '_'
		}
	}
	for _, tt := range z.types {
		a := z.abbrAt(tt.AbbrIndex)
		if len(a) > MaxAbbrLen && a != grandparented {
			z.abbrs[tt.AbbrIndex+MaxAbbrLen] = 0
		}
	}
}
