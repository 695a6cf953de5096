package tzinfo

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ngrash/go-tzinfo/internal/tziftest"
	"github.com/ngrash/go-tzinfo/internal/unixtime"
)

var (
	springForward2024 = unixtime.FromDateTime(2024, time.March, 10, 7, 0, 0)
	fallBack2024      = unixtime.FromDateTime(2024, time.November, 3, 6, 0, 0)
)

// newYork returns a v2 zone with alternating EST/EDT rules around 2024.
func newYork(t *testing.T) *TzInfo {
	t.Helper()
	buf := tziftest.V2(tziftest.Block{
		TransitionTimes: []int64{
			unixtime.FromDateTime(1883, time.November, 18, 17, 0, 0),
			unixtime.FromDateTime(2023, time.March, 12, 7, 0, 0),
			unixtime.FromDateTime(2023, time.November, 5, 6, 0, 0),
			springForward2024,
			fallBack2024,
		},
		TransitionTypes: []uint8{2, 1, 2, 1, 2},
		Rules: []tziftest.Rule{
			{Utoff: -17762, Idx: 0},
			{Utoff: -14400, Dst: true, Idx: 4},
			{Utoff: -18000, Idx: 8},
		},
		Designations: "LMT\x00EDT\x00EST\x00",
	}, "EST5EDT,M3.2.0,M11.1.0")
	z, err := Parse(buf)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return z
}

func utc(t *testing.T) *TzInfo {
	t.Helper()
	z, err := Parse(tziftest.V2(tziftest.Block{
		Rules:        []tziftest.Rule{{}},
		Designations: "UTC\x00",
	}, "UTC0"))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return z
}

func TestLookup_DSTBoundary(t *testing.T) {
	z := newYork(t)
	tests := []struct {
		name    string
		seconds int64
		abbrev  string
		offset  int32
		dst     bool
	}{
		{"before spring forward", springForward2024 - 1, "EST", -18000, false},
		{"at spring forward", springForward2024, "EDT", -14400, true},
		{"after spring forward", springForward2024 + 1, "EDT", -14400, true},
		{"before fall back", fallBack2024 - 1, "EDT", -14400, true},
		{"after fall back", fallBack2024 + 1, "EST", -18000, false},
		{"far future", 1 << 40, "EST", -18000, false},
		{"first transition", unixtime.FromDateTime(1883, time.November, 18, 17, 0, 0), "EST", -18000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := z.Lookup(tt.seconds, false)
			if err != nil {
				t.Fatalf("Lookup(%d) failed: %v", tt.seconds, err)
			}
			if r.Abbreviation != tt.abbrev || r.UTCOffset != tt.offset || r.IsDST != tt.dst {
				t.Errorf("Lookup(%d) = %s %d dst=%v, want %s %d dst=%v", tt.seconds, r.Abbreviation, r.UTCOffset, r.IsDST, tt.abbrev, tt.offset, tt.dst)
			}
		})
	}
}

func TestLookup_TooOld(t *testing.T) {
	z := newYork(t)
	before := z.TransitionTimes[0] - 1

	if _, err := z.Lookup(before, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(%d, false) error = %v, want %v", before, err, ErrNotFound)
	}

	r, err := z.Lookup(before, true)
	if err != nil {
		t.Fatalf("Lookup(%d, true) failed: %v", before, err)
	}
	if diff := cmp.Diff(r, z.Rules[z.TransitionTypes[0]]); diff != "" {
		t.Errorf("Lookup(%d, true) mismatch (-got +want):\n%s", before, diff)
	}
}

func TestLookup_FixedOffset(t *testing.T) {
	z := utc(t)
	for _, s := range []int64{-1 << 62, -1, 0, 1, 1 << 62} {
		r, err := z.Lookup(s, false)
		if err != nil {
			t.Fatalf("Lookup(%d) failed: %v", s, err)
		}
		if r.Abbreviation != "UTC" || r.UTCOffset != 0 {
			t.Errorf("Lookup(%d) = %+v, want UTC", s, r)
		}
	}
}

func TestLookup_NoRules(t *testing.T) {
	z := &TzInfo{}
	for _, earliest := range []bool{false, true} {
		if _, err := z.Lookup(0, earliest); !errors.Is(err, ErrNotFound) {
			t.Errorf("Lookup(0, %v) error = %v, want %v", earliest, err, ErrNotFound)
		}
	}
}

func TestLookup_BadTransitionType(t *testing.T) {
	z := &TzInfo{
		TransitionTimes: []int64{0},
		TransitionTypes: []uint8{7},
		Rules:           []Rule{{Abbreviation: "UTC"}},
	}
	if _, err := z.Lookup(10, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup() error = %v, want %v", err, ErrNotFound)
	}
}

func TestFindRule_Instants(t *testing.T) {
	z := newYork(t)
	at := time.Unix(springForward2024, 0)

	tests := []struct {
		name   string
		find   func() (Rule, error)
		abbrev string
	}{
		{"time", func() (Rule, error) { return FindRule(z, at, false) }, "EDT"},
		{"time in other zone", func() (Rule, error) { return FindRule(z, at.Add(-time.Second).In(time.FixedZone("X", 3600)), false) }, "EST"},
		{"millis", func() (Rule, error) { return FindRuleMillis(z, springForward2024*1000, false) }, "EDT"},
		{"millis floored", func() (Rule, error) { return FindRuleMillis(z, springForward2024*1000-1, false) }, "EST"},
		{"rfc3339", func() (Rule, error) { return FindRuleString(z, "2024-03-10T07:00:00Z", false) }, "EDT"},
		{"rfc3339 offset", func() (Rule, error) { return FindRuleString(z, "2024-03-10T01:59:59-05:00", false) }, "EST"},
		{"fractional", func() (Rule, error) { return FindRuleString(z, "2024-03-10T06:59:59.999Z", false) }, "EST"},
		{"no zone", func() (Rule, error) { return FindRuleString(z, "2024-07-01T12:00:00", false) }, "EDT"},
		{"date", func() (Rule, error) { return FindRuleString(z, "2024-01-15", false) }, "EST"},
		{"too old", func() (Rule, error) { return FindRuleString(z, "1800-01-01", true) }, "EST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.find()
			if err != nil {
				t.Fatalf("find failed: %v", err)
			}
			if r.Abbreviation != tt.abbrev {
				t.Errorf("find = %s, want %s", r.Abbreviation, tt.abbrev)
			}
		})
	}
}

func TestFindRuleString_Invalid(t *testing.T) {
	z := utc(t)
	if _, err := FindRuleString(z, "yesterday", false); !errors.Is(err, ErrBadInstant) {
		t.Errorf("FindRuleString() error = %v, want %v", err, ErrBadInstant)
	}
}

func TestAbsearch(t *testing.T) {
	tests := []struct {
		name  string
		array []int64
		val   int64
		want  int
	}{
		{"nil", nil, 0, -1},
		{"empty", []int64{}, 5, -1},
		{"single below", []int64{10}, 9, -1},
		{"single equal", []int64{10}, 10, 0},
		{"single above", []int64{10}, 11, 0},
		{"between", []int64{10, 20, 30}, 25, 1},
		{"duplicates", []int64{10, 20, 20, 20, 30}, 20, 3},
		{"duplicates below", []int64{10, 20, 20, 20, 30}, 19, 0},
		{"all duplicates", []int64{5, 5, 5}, 5, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := absearch(tt.array, tt.val); got != tt.want {
				t.Errorf("absearch(%v, %d) = %d, want %d", tt.array, tt.val, got, tt.want)
			}
		})
	}
}

func TestAbsearch_StrictlyIncreasing(t *testing.T) {
	for _, n := range []int{1, 2, 29, 30, 31, 32, 33, 61, 100, 1000} {
		a := make([]int64, n)
		for i := range a {
			a[i] = int64(i)*7 - 3000
		}
		if got := absearch(a, a[0]-1); got != -1 {
			t.Errorf("n=%d: absearch(min-1) = %d, want -1", n, got)
		}
		for i, v := range a {
			if got := absearch(a, v); got != i {
				t.Errorf("n=%d: absearch(a[%d]) = %d, want %d", n, i, got, i)
			}
			if got := absearch(a, v+3); got != i {
				t.Errorf("n=%d: absearch(a[%d]+3) = %d, want %d", n, i, got, i)
			}
		}
	}
}

func TestAbsearch_MatchesSortSearch(t *testing.T) {
	// Long runs of duplicates straddle the bisection points.
	var a []int64
	for v := int64(0); v < 40; v++ {
		for j := int64(0); j <= v%5; j++ {
			a = append(a, v*10)
		}
	}
	for v := int64(-5); v < 410; v++ {
		want := sort.Search(len(a), func(i int) bool { return a[i] > v }) - 1
		if got := absearch(a, v); got != want {
			t.Errorf("absearch(%d) = %d, want %d", v, got, want)
		}
	}
}
