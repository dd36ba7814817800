package zone

// wildAbbr labels times for which no abbreviation is known.
const wildAbbr = "   "

// Summary is the coarse description of a zone: one abbreviation of each
// kind and the standard offset.
type Summary struct {
	StdAbbr string
	DSTAbbr string
	// HasDST reports whether any transition enters daylight time.
	HasDST bool
	// StdOffset is the offset east of UT of the last standard type entered
	// by a transition.
	StdOffset int32
}

// Summary derives the zone's Summary. Abbreviations not found are three
// spaces.
func (z *Zone) Summary() Summary {
	s := Summary{StdAbbr: wildAbbr, DSTAbbr: wildAbbr}
	for i, tt := range z.types {
		if tt.IsDST {
			s.DSTAbbr = z.Abbr(i)
		} else {
			s.StdAbbr = z.Abbr(i)
		}
	}
	for _, tr := range z.trans {
		tt := z.types[tr.Type]
		if tt.IsDST {
			s.HasDST = true
			s.DSTAbbr = z.Abbr(tr.Type)
		} else {
			s.StdAbbr = z.Abbr(tr.Type)
			s.StdOffset = tt.Offset
		}
	}
	return s
}
