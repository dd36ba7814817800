package zone

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCivil(t *testing.T) {
	ny := newYork2007(t)
	tests := []struct {
		name string
		zone *Zone
		t    int64
		want Civil
	}{
		{
			name: "epoch",
			zone: UTC(),
			t:    0,
			want: Civil{Year: 1970, Month: 1, Day: 1, Weekday: time.Thursday, YearDay: 1, Abbr: "UTC"},
		},
		{
			name: "before epoch",
			zone: UTC(),
			t:    -1,
			want: Civil{Year: 1969, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 59, Weekday: time.Wednesday, YearDay: 365, Abbr: "UTC"},
		},
		{
			name: "leap day",
			zone: UTC(),
			t:    951782400,
			want: Civil{Year: 2000, Month: 2, Day: 29, Weekday: time.Tuesday, YearDay: 60, Abbr: "UTC"},
		},
		{
			name: "before first transition",
			zone: ny,
			t:    1173596399,
			want: Civil{Year: 2007, Month: 3, Day: 11, Hour: 1, Minute: 59, Second: 59, Weekday: time.Sunday, YearDay: 70, Offset: -18000, Abbr: "EST"},
		},
		{
			name: "at first transition",
			zone: ny,
			t:    1173596400,
			want: Civil{Year: 2007, Month: 3, Day: 11, Hour: 3, Weekday: time.Sunday, YearDay: 70, IsDST: true, Offset: -14400, Abbr: "EDT"},
		},
		{
			name: "after last transition",
			zone: ny,
			t:    1194156000,
			want: Civil{Year: 2007, Month: 11, Day: 4, Hour: 1, Weekday: time.Sunday, YearDay: 308, Offset: -18000, Abbr: "EST"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.zone.Civil(tt.t)
			if err != nil {
				t.Fatalf("Civil(%d) failed: %v", tt.t, err)
			}
			if diff := cmp.Diff(got, tt.want); diff != "" {
				t.Errorf("Civil(%d) mismatch (-got +want):\n%s", tt.t, diff)
			}
		})
	}
}

func TestCivil_Overflow(t *testing.T) {
	for _, instant := range []int64{math.MaxInt64, math.MinInt64} {
		if _, err := UTC().Civil(instant); !errors.Is(err, ErrOverflow) {
			t.Errorf("Civil(%d) error = %v, want ErrOverflow", instant, err)
		}
	}
}

func TestCivilOffset(t *testing.T) {
	got, err := UTC().CivilOffset(0, 3600)
	if err != nil {
		t.Fatalf("CivilOffset() failed: %v", err)
	}
	want := Civil{Year: 1970, Month: 1, Day: 1, Hour: 1, Weekday: time.Thursday, YearDay: 1, Offset: 3600, Abbr: "   "}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("CivilOffset() mismatch (-got +want):\n%s", diff)
	}

	tm := Civil{Year: 1970, Month: 1, Day: 1, Hour: 1}
	instant, err := UTC().FromCivilOffset(&tm, 3600)
	if err != nil {
		t.Fatalf("FromCivilOffset() failed: %v", err)
	}
	if instant != 0 {
		t.Errorf("FromCivilOffset() = %d, want 0", instant)
	}
}

func leapZone(t *testing.T) *Zone {
	t.Helper()
	z, err := New(Table{
		Types: []TimeType{{}},
		Leaps: []LeapEntry{{At: 78796800, Corr: 1}},
		Abbrs: []byte("UTC\x00"),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return z
}

func TestCivil_LeapSecond(t *testing.T) {
	z := leapZone(t)
	clock := func(c Civil) [6]int { return [6]int{c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second} }
	tests := []struct {
		t    int64
		want [6]int
	}{
		{78796799, [6]int{1972, 6, 30, 23, 59, 59}},
		{78796800, [6]int{1972, 6, 30, 23, 59, 60}},
		{78796801, [6]int{1972, 7, 1, 0, 0, 0}},
	}
	for _, tt := range tests {
		got, err := z.Civil(tt.t)
		if err != nil {
			t.Fatalf("Civil(%d) failed: %v", tt.t, err)
		}
		if diff := cmp.Diff(clock(got), tt.want); diff != "" {
			t.Errorf("Civil(%d) mismatch (-got +want):\n%s", tt.t, diff)
		}
	}

	tm := Civil{Year: 1972, Month: 6, Day: 30, Hour: 23, Minute: 59, Second: 60}
	got, err := z.FromCivil(&tm, DSTUnspecified)
	if err != nil {
		t.Fatalf("FromCivil() failed: %v", err)
	}
	if got != 78796800 {
		t.Errorf("FromCivil(23:59:60) = %d, want 78796800", got)
	}
}

func TestTime2Posix(t *testing.T) {
	z := leapZone(t)
	tests := []struct {
		t, posix int64
	}{
		{78796799, 78796799},
		{78796800, 78796799},
		{78796801, 78796800},
		{100000000, 99999999},
	}
	for _, tt := range tests {
		got, err := z.Time2Posix(tt.t)
		if err != nil {
			t.Fatalf("Time2Posix(%d) failed: %v", tt.t, err)
		}
		if got != tt.posix {
			t.Errorf("Time2Posix(%d) = %d, want %d", tt.t, got, tt.posix)
		}
	}
	// The repeated POSIX second maps back to the later instant.
	for _, tt := range []struct{ posix, t int64 }{
		{78796799, 78796799},
		{78796800, 78796801},
		{99999999, 100000000},
	} {
		got, err := z.Posix2Time(tt.posix)
		if err != nil {
			t.Fatalf("Posix2Time(%d) failed: %v", tt.posix, err)
		}
		if got != tt.t {
			t.Errorf("Posix2Time(%d) = %d, want %d", tt.posix, got, tt.t)
		}
	}
}

func TestFromCivil(t *testing.T) {
	ny := newYork2007(t)
	tests := []struct {
		name    string
		zone    *Zone
		in      Civil
		dst     DST
		want    int64
		wantOut Civil
	}{
		{
			name:    "plain",
			zone:    UTC(),
			in:      Civil{Year: 2000, Month: 2, Day: 29},
			dst:     DSTUnspecified,
			want:    951782400,
			wantOut: Civil{Year: 2000, Month: 2, Day: 29, Weekday: time.Tuesday, YearDay: 60, Abbr: "UTC"},
		},
		{
			name:    "day overflow",
			zone:    UTC(),
			in:      Civil{Year: 1999, Month: 12, Day: 62},
			dst:     DSTOff,
			want:    949276800,
			wantOut: Civil{Year: 2000, Month: 1, Day: 31, Weekday: time.Monday, YearDay: 31, Abbr: "UTC"},
		},
		{
			name:    "month underflow",
			zone:    UTC(),
			in:      Civil{Year: 2001, Month: -10, Day: 29},
			dst:     DSTOff,
			want:    951782400,
			wantOut: Civil{Year: 2000, Month: 2, Day: 29, Weekday: time.Tuesday, YearDay: 60, Abbr: "UTC"},
		},
		{
			name:    "negative second before epoch",
			zone:    UTC(),
			in:      Civil{Year: 1969, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 60},
			dst:     DSTOff,
			want:    0,
			wantOut: Civil{Year: 1970, Month: 1, Day: 1, Weekday: time.Thursday, YearDay: 1, Abbr: "UTC"},
		},
		{
			name:    "ambiguous daylight",
			zone:    ny,
			in:      Civil{Year: 2007, Month: 11, Day: 4, Hour: 1, Minute: 30},
			dst:     DSTOn,
			want:    1194154200,
			wantOut: Civil{Year: 2007, Month: 11, Day: 4, Hour: 1, Minute: 30, Weekday: time.Sunday, YearDay: 308, IsDST: true, Offset: -14400, Abbr: "EDT"},
		},
		{
			name:    "ambiguous standard",
			zone:    ny,
			in:      Civil{Year: 2007, Month: 11, Day: 4, Hour: 1, Minute: 30},
			dst:     DSTOff,
			want:    1194157800,
			wantOut: Civil{Year: 2007, Month: 11, Day: 4, Hour: 1, Minute: 30, Weekday: time.Sunday, YearDay: 308, Offset: -18000, Abbr: "EST"},
		},
		{
			name:    "gap",
			zone:    ny,
			in:      Civil{Year: 2007, Month: 3, Day: 11, Hour: 2, Minute: 30},
			dst:     DSTUnspecified,
			want:    1173598200,
			wantOut: Civil{Year: 2007, Month: 3, Day: 11, Hour: 3, Minute: 30, Weekday: time.Sunday, YearDay: 70, IsDST: true, Offset: -14400, Abbr: "EDT"},
		},
		{
			name:    "standard given during daylight",
			zone:    ny,
			in:      Civil{Year: 2007, Month: 7, Day: 1, Hour: 12},
			dst:     DSTOff,
			want:    1183309200,
			wantOut: Civil{Year: 2007, Month: 7, Day: 1, Hour: 13, Weekday: time.Sunday, YearDay: 182, IsDST: true, Offset: -14400, Abbr: "EDT"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := tt.in
			got, err := tt.zone.FromCivil(&tm, tt.dst)
			if err != nil {
				t.Fatalf("FromCivil() failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("FromCivil() = %d, want %d", got, tt.want)
			}
			if diff := cmp.Diff(tm, tt.wantOut); diff != "" {
				t.Errorf("normalized fields mismatch (-got +want):\n%s", diff)
			}
		})
	}
}

func TestFromCivil_Overflow(t *testing.T) {
	tests := []Civil{
		{Year: math.MaxInt32, Month: 13, Day: 1},
		{Year: math.MinInt32, Month: 1, Day: 1},
		{Year: 2000, Month: 1, Day: 1, Hour: math.MaxInt32, Minute: 60 * math.MaxInt32},
	}
	for _, in := range tests {
		tm := in
		if _, err := UTC().FromCivil(&tm, DSTOff); !errors.Is(err, ErrOverflow) {
			t.Errorf("FromCivil(%v) error = %v, want ErrOverflow", in, err)
		}
		if diff := cmp.Diff(tm, in); diff != "" {
			t.Errorf("FromCivil(%v) modified input on failure:\n%s", in, diff)
		}
	}
}

func TestFromCivil_RoundTrip(t *testing.T) {
	ny := newYork2007(t)
	// Step across both transitions, including the repeated hour.
	for _, start := range []int64{1173596400 - 7200, 1194156000 - 7200} {
		for instant := start; instant < start+4*3600; instant += 599 {
			c, err := ny.Civil(instant)
			if err != nil {
				t.Fatalf("Civil(%d) failed: %v", instant, err)
			}
			dst := DSTOff
			if c.IsDST {
				dst = DSTOn
			}
			tm := c
			got, err := ny.FromCivil(&tm, dst)
			if err != nil {
				t.Fatalf("FromCivil(%v) failed: %v", c, err)
			}
			if got != instant {
				t.Errorf("FromCivil(Civil(%d)) = %d", instant, got)
			}
			if diff := cmp.Diff(tm, c); diff != "" {
				t.Errorf("FromCivil(%v) changed fields:\n%s", c, diff)
			}
		}
	}
}

func TestFromCivil_Monotonic(t *testing.T) {
	ny := newYork2007(t)
	var prev int64 = math.MinInt64
	for day := 1; day <= 365; day++ {
		tm := Civil{Year: 2007, Month: 1, Day: day, Hour: 12}
		got, err := ny.FromCivil(&tm, DSTUnspecified)
		if err != nil {
			t.Fatalf("FromCivil(day %d) failed: %v", day, err)
		}
		if got <= prev {
			t.Fatalf("FromCivil(day %d) = %d, not after %d", day, got, prev)
		}
		prev = got
	}
}

// repeating has a transition pair exactly one Gregorian cycle apart, so
// instants on both sides are converted by extrapolation.
func repeating(t *testing.T) *Zone {
	t.Helper()
	const start = 946684800 // 2000-01-01T00:00:00Z
	z, err := New(Table{
		Types: []TimeType{
			{Offset: -18000, AbbrIndex: 0},
			{Offset: -14400, IsDST: true, AbbrIndex: 4},
		},
		Transitions: []Transition{
			{At: start, Type: 1},
			{At: start + 86400, Type: 0},
			{At: start + 12622780800, Type: 1},
		},
		Abbrs: []byte("EST\x00EDT\x00"),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if !z.GoBack() || !z.GoAhead() {
		t.Fatalf("GoBack() = %v, GoAhead() = %v, want both", z.GoBack(), z.GoAhead())
	}
	return z
}

func TestCivil_Extrapolation(t *testing.T) {
	z := repeating(t)
	const start = 946684800
	ignoreYear := cmpopts.IgnoreFields(Civil{}, "Year")
	tests := []struct {
		name     string
		t        int64
		inside   int64
		wantYear int
	}{
		{"ahead one cycle", start + 12622780800 + 5, start + 5, 2399},
		{"ahead two cycles", start + 2*12622780800 + 5, start + 5, 2799},
		{"back one cycle", start - 10, start + 12622780800 - 10, 1999},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := z.Civil(tt.t)
			if err != nil {
				t.Fatalf("Civil(%d) failed: %v", tt.t, err)
			}
			want, err := z.Civil(tt.inside)
			if err != nil {
				t.Fatalf("Civil(%d) failed: %v", tt.inside, err)
			}
			if got.Year != tt.wantYear {
				t.Errorf("Civil(%d).Year = %d, want %d", tt.t, got.Year, tt.wantYear)
			}
			if diff := cmp.Diff(got, want, ignoreYear); diff != "" {
				t.Errorf("Civil(%d) mismatch with Civil(%d) (-got +want):\n%s", tt.t, tt.inside, diff)
			}
		})
	}
	if _, err := z.Civil(math.MaxInt64); !errors.Is(err, ErrOverflow) {
		t.Errorf("Civil(MaxInt64) error = %v, want ErrOverflow", err)
	}
	// More than MaxInt64 seconds before the first transition, so the
	// whole-cycle shift itself overflows.
	if _, err := z.Civil(math.MinInt64); !errors.Is(err, ErrOverflow) {
		t.Errorf("Civil(MinInt64) error = %v, want ErrOverflow", err)
	}
}

func TestFromCivil_SearchesRange(t *testing.T) {
	z, err := New(Table{
		Types: []TimeType{{}},
		Abbrs: []byte("UTC\x00"),
		Range: Range32,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	tm := Civil{Year: 2038, Month: 1, Day: 19, Hour: 3, Minute: 14, Second: 7}
	got, err := z.FromCivil(&tm, DSTOff)
	if err != nil || got != math.MaxInt32 {
		t.Errorf("FromCivil(2038-01-19 03:14:07) = %d, %v; want %d", got, err, int64(math.MaxInt32))
	}
	tm = Civil{Year: 2038, Month: 1, Day: 19, Hour: 3, Minute: 14, Second: 8}
	if _, err := z.FromCivil(&tm, DSTOff); !errors.Is(err, ErrNoSuchTime) {
		t.Errorf("FromCivil(2038-01-19 03:14:08) error = %v, want ErrNoSuchTime", err)
	}
}
