package posixtz

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-localtime/zone"
)

type observation struct {
	Offset int32
	IsDST  bool
	Abbr   string
	Hour   int
}

func observe(t *testing.T, z *zone.Zone, instant int64) observation {
	t.Helper()
	c, err := z.Civil(instant)
	if err != nil {
		t.Fatalf("Civil(%d) failed: %v", instant, err)
	}
	return observation{Offset: c.Offset, IsDST: c.IsDST, Abbr: c.Abbr, Hour: c.Hour}
}

func mustParse(t *testing.T, rule string, opts Options) *zone.Zone {
	t.Helper()
	z, err := Parse(rule, opts)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", rule, err)
	}
	return z
}

func TestParse_Transitions(t *testing.T) {
	tests := []struct {
		name string
		rule string
		at   int64
		want observation
	}{
		// US spring-forward, 2007-03-11T07:00:00Z.
		{"before spring forward", "EST5EDT,M3.2.0,M11.1.0", 1173596399, observation{-18000, false, "EST", 1}},
		{"at spring forward", "EST5EDT,M3.2.0,M11.1.0", 1173596400, observation{-14400, true, "EDT", 3}},
		// US fall-back, 2007-11-04T06:00:00Z.
		{"before fall back", "EST5EDT,M3.2.0,M11.1.0", 1194155999, observation{-14400, true, "EDT", 1}},
		{"at fall back", "EST5EDT,M3.2.0,M11.1.0", 1194156000, observation{-18000, false, "EST", 1}},
		// Southern hemisphere: daylight time spans the new year.
		{"southern summer", "AEST-10AEDT,M10.1.0,M4.1.0/3", 1168819200, observation{39600, true, "AEDT", 11}},
		{"southern winter", "AEST-10AEDT,M10.1.0,M4.1.0/3", 1181865600, observation{36000, false, "AEST", 10}},
		// Quasi-POSIX time of day past midnight, 2024-03-29T00:00:00Z.
		{"hour 26 before", "IST-2IDT,M3.4.4/26,M10.5.0", 1711670399, observation{7200, false, "IST", 1}},
		{"hour 26 at", "IST-2IDT,M3.4.4/26,M10.5.0", 1711670400, observation{10800, true, "IDT", 3}},
		// Without a rule pair or defaults the fallback rule applies,
		// starting on 2007-04-01T07:00:00Z.
		{"fallback rule before", "EST5EDT", 1175410799, observation{-18000, false, "EST", 1}},
		{"fallback rule at", "EST5EDT", 1175410800, observation{-14400, true, "EDT", 3}},
		{"standard only", "<+0330>-3:30", 0, observation{12600, false, "+0330", 3}},
		{"explicit daylight offset", "NST3:30NDT2:30,M3.2.0,M11.1.0", 1183309200, observation{-9000, true, "NDT", 14}},
		{"negative rule times", "<-03>3<-02>,M3.5.0/-2,M10.5.0/-1", 1183309200, observation{-7200, true, "-02", 15}},
		// ';' ends a quoted name or an explicit daylight offset; a bare
		// name would swallow it.
		{"semicolon after quoted name", "<EST>5<EDT>;M3.2.0,M11.1.0", 1173596400, observation{-14400, true, "EDT", 3}},
		{"semicolon after daylight offset", "EST5EDT4;M3.2.0,M11.1.0", 1173596400, observation{-14400, true, "EDT", 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := mustParse(t, tt.rule, Options{})
			if diff := cmp.Diff(observe(t, z, tt.at), tt.want); diff != "" {
				t.Errorf("Civil(%d) mismatch (-got +want):\n%s", tt.at, diff)
			}
		})
	}
}

func TestParse_Window(t *testing.T) {
	z := mustParse(t, "EST5EDT,M3.2.0,M11.1.0", Options{})
	if n := len(z.Transitions()); n != zone.MaxTimes {
		t.Errorf("got %d transitions, want %d", n, zone.MaxTimes)
	}
	types := z.Types()
	want := []zone.TimeType{
		{Offset: -14400, IsDST: true, AbbrIndex: 4},
		{Offset: -18000, AbbrIndex: 0},
	}
	if diff := cmp.Diff(types, want); diff != "" {
		t.Errorf("Types() mismatch (-got +want):\n%s", diff)
	}
	if !z.GoAhead() {
		t.Errorf("GoAhead() = false, want true for a repeating rule")
	}
	// Far past the table the rule still applies.
	far := z.Transitions()[zone.MaxTimes-1].At + 10*12622780800 + 180*86400
	if c, err := z.Civil(far); err != nil || !c.IsDST {
		t.Errorf("Civil(%d) = %v, %v; want daylight time", far, c, err)
	}
}

func TestParse_PerpetualDST(t *testing.T) {
	z := mustParse(t, "XXX3YYY,J1/0,J365/26", Options{})
	if n := len(z.Transitions()); n != 0 {
		t.Errorf("got %d transitions, want none", n)
	}
	if diff := cmp.Diff(z.Types(), []zone.TimeType{{Offset: -7200, IsDST: true, AbbrIndex: 4}}); diff != "" {
		t.Errorf("Types() mismatch (-got +want):\n%s", diff)
	}
	if got := observe(t, z, 0); !got.IsDST || got.Abbr != "YYY" {
		t.Errorf("Civil(0) = %+v, want YYY daylight time", got)
	}

	// Adjacent years whose end and start coincide stay in daylight time.
	z = mustParse(t, "EST5EDT,0/0,J365/25", Options{})
	for _, instant := range []int64{1168819200, 1183309200, 1199145600} {
		if got := observe(t, z, instant); !got.IsDST {
			t.Errorf("Civil(%d) = %+v, want daylight time", instant, got)
		}
	}
}

func TestParse_Defaults(t *testing.T) {
	defaults := mustParse(t, "EST5EDT,M3.2.0,M11.1.0", Options{})
	z := mustParse(t, "CST6CDT", Options{Defaults: defaults})
	want := []zone.TimeType{
		{Offset: -21600, AbbrIndex: 0},
		{Offset: -18000, IsDST: true, AbbrIndex: 4},
	}
	if diff := cmp.Diff(z.Types(), want); diff != "" {
		t.Errorf("Types() mismatch (-got +want):\n%s", diff)
	}
	if got, want := len(z.Transitions()), len(defaults.Transitions()); got != want {
		t.Errorf("got %d transitions, want %d borrowed", got, want)
	}
	// The borrowed transitions keep their 02:00 wall-clock time.
	for _, tt := range []struct {
		at   int64
		want observation
	}{
		{1173599999, observation{-21600, false, "CST", 1}},
		{1173600000, observation{-18000, true, "CDT", 3}},
		{1194159599, observation{-18000, true, "CDT", 1}},
		{1194159600, observation{-21600, false, "CST", 1}},
	} {
		if diff := cmp.Diff(observe(t, z, tt.at), tt.want); diff != "" {
			t.Errorf("Civil(%d) mismatch (-got +want):\n%s", tt.at, diff)
		}
	}

	// An explicit rule pair ignores the default transitions.
	z = mustParse(t, "CST6CDT,M4.1.0,M10.5.0", Options{Defaults: defaults})
	if got := observe(t, z, 1173600000); got.IsDST {
		t.Errorf("Civil(1173600000) = %+v, want standard time before April", got)
	}
}

func TestParse_DefaultsDaylightOffset(t *testing.T) {
	// Transitions out of daylight time were written in the default zone's
	// daylight offset and move by the difference to ours, here 3h, while
	// transitions into it move by the standard difference of 2h.
	defaults := mustParse(t, "EST5EDT,M3.2.0,M11.1.0", Options{})
	z := mustParse(t, "XST3XDT1", Options{Defaults: defaults})
	for _, tt := range []struct {
		at   int64
		want observation
	}{
		{1173589199, observation{-10800, false, "XST", 1}},
		{1173589200, observation{-3600, true, "XDT", 4}},
		{1194145199, observation{-3600, true, "XDT", 1}},
		{1194145200, observation{-10800, false, "XST", 0}},
	} {
		if diff := cmp.Diff(observe(t, z, tt.at), tt.want); diff != "" {
			t.Errorf("Civil(%d) mismatch (-got +want):\n%s", tt.at, diff)
		}
	}
}

func TestParse_InheritsLeaps(t *testing.T) {
	leaps := []zone.LeapEntry{{At: 78796800, Corr: 1}}
	defaults, err := zone.New(zone.Table{
		Types: []zone.TimeType{{}},
		Leaps: leaps,
		Abbrs: []byte("UTC\x00"),
	})
	if err != nil {
		t.Fatalf("zone.New() failed: %v", err)
	}
	z := mustParse(t, "EST5EDT,M3.2.0,M11.1.0", Options{Defaults: defaults})
	if diff := cmp.Diff(z.Leaps(), leaps); diff != "" {
		t.Errorf("Leaps() mismatch (-got +want):\n%s", diff)
	}
	ld, err := LastDitch("UTC", Options{Defaults: defaults})
	if err != nil {
		t.Fatalf("LastDitch() failed: %v", err)
	}
	if diff := cmp.Diff(ld.Leaps(), leaps); diff != "" {
		t.Errorf("LastDitch().Leaps() mismatch (-got +want):\n%s", diff)
	}
}

func TestParse_Range(t *testing.T) {
	z := mustParse(t, "EST5EDT,M3.2.0,M11.1.0", Options{Range: zone.Range32})
	trans := z.Transitions()
	if last := trans[len(trans)-1].At; last > zone.Range32.Max {
		t.Errorf("last transition %d beyond the 32-bit range", last)
	}
	if z.Range() != zone.Range32 {
		t.Errorf("Range() = %+v, want Range32", z.Range())
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		rule string
		pos  int
		msg  string
	}{
		{"", 0, "empty zone name"},
		{"EST", 3, "missing standard offset"},
		{"5", 0, "empty zone name"},
		{"<EST5", 5, "unterminated quoted zone name"},
		{"EST168", 5, "number out of range"},
		{"EST5:60", 6, "number out of range"},
		{"EST5:30:61", 9, "number out of range"},
		{"EST5EDT,M3.2.0", 14, "expected ','"},
		{"EST5EDT,M13.1.0,M11.1.0", 10, "number out of range"},
		{"EST5EDT,M3.6.0,M11.1.0", 11, "number out of range"},
		{"EST5EDT,M3.2.7,M11.1.0", 13, "number out of range"},
		{"EST5EDT,M3-2.0,M11.1.0", 10, "expected '.'"},
		{"EST5EDT,J0,J100", 10, "number out of range"},
		{"EST5EDT,366,0", 10, "number out of range"},
		{"EST5EDT,Q1,J2", 8, "invalid rule date"},
		{"EST5EDT,M3.2.0,M11.1.0x", 22, "trailing characters"},
		{"EST5EDT4;", 9, "invalid rule date"},
		{"EST5EDT4x", 8, "unexpected character"},
		{"EST5EDT;M3.2.0,M11.1.0", 10, "unexpected character"},
		{"EST5,M3.2.0,M11.1.0", 4, "empty zone name"},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			_, err := Parse(tt.rule, Options{})
			if !errors.Is(err, zone.ErrRuleSyntax) {
				t.Fatalf("Parse() error = %v, want ErrRuleSyntax", err)
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Parse() error %T is not a *SyntaxError", err)
			}
			if se.Pos != tt.pos || !strings.Contains(se.Msg, tt.msg) {
				t.Errorf("Parse() error = %v, want %q at %d", se, tt.msg, tt.pos)
			}
		})
	}
}

func TestParse_NamesTooLong(t *testing.T) {
	long := strings.Repeat("A", 300)
	_, err := Parse(long+"5"+long+",M3.2.0,M11.1.0", Options{})
	if !errors.Is(err, zone.ErrRuleSyntax) {
		t.Errorf("Parse() error = %v, want ErrRuleSyntax", err)
	}
}

func TestLastDitch(t *testing.T) {
	z, err := LastDitch("Europe/Nowhere", Options{})
	if err != nil {
		t.Fatalf("LastDitch() failed: %v", err)
	}
	if diff := cmp.Diff(observe(t, z, 0), observation{Abbr: "Europe_Nowhere"}); diff != "" {
		t.Errorf("Civil(0) mismatch (-got +want):\n%s", diff)
	}
	if _, err := LastDitch(strings.Repeat("x", 1000), Options{}); err != nil {
		t.Errorf("LastDitch(long) failed: %v", err)
	}
}
