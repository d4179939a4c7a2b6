package appointment

import (
	"testing"
	"time"
)

func mustInterval(t *testing.T, startHour, endHour int) Interval {
	t.Helper()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	iv, err := NewInterval(day.Add(time.Duration(startHour)*time.Hour), day.Add(time.Duration(endHour)*time.Hour))
	if err != nil {
		t.Fatalf("NewInterval: %v", err)
	}
	return iv
}

func TestNewIntervalRejectsReversedBounds(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if _, err := NewInterval(start, start.Add(-time.Hour)); err != ErrInvalidInterval {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}

	// Zero-length is allowed, just empty.
	iv, err := NewInterval(start, start)
	if err != nil {
		t.Fatalf("zero-length interval: %v", err)
	}
	if !iv.IsEmpty() {
		t.Fatal("zero-length interval should be empty")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"disjoint", mustInterval(t, 9, 10), mustInterval(t, 11, 12), false},
		{"touching is not overlapping", mustInterval(t, 9, 10), mustInterval(t, 10, 11), false},
		{"partial", mustInterval(t, 9, 11), mustInterval(t, 10, 12), true},
		{"contained", mustInterval(t, 9, 17), mustInterval(t, 12, 13), true},
		{"identical", mustInterval(t, 9, 10), mustInterval(t, 9, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v (must be symmetric)", got, tt.want)
			}
		})
	}
}

func TestContainedWithin(t *testing.T) {
	day := mustInterval(t, 9, 17)

	if !mustInterval(t, 9, 17).ContainedWithin(day) {
		t.Error("interval should contain itself")
	}
	if !mustInterval(t, 10, 11).ContainedWithin(day) {
		t.Error("inner interval should be contained")
	}
	if mustInterval(t, 8, 10).ContainedWithin(day) {
		t.Error("interval starting before container is not contained")
	}
	if mustInterval(t, 16, 18).ContainedWithin(day) {
		t.Error("interval ending after container is not contained")
	}
}

func TestDifference(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		cut  Interval
		want []Interval
	}{
		{
			name: "no overlap leaves a untouched",
			a:    mustInterval(t, 9, 12),
			cut:  mustInterval(t, 13, 14),
			want: []Interval{mustInterval(t, 9, 12)},
		},
		{
			name: "cut covering a removes everything",
			a:    mustInterval(t, 10, 11),
			cut:  mustInterval(t, 9, 12),
			want: nil,
		},
		{
			name: "cut trimming the left edge",
			a:    mustInterval(t, 9, 12),
			cut:  mustInterval(t, 8, 10),
			want: []Interval{mustInterval(t, 10, 12)},
		},
		{
			name: "cut trimming the right edge",
			a:    mustInterval(t, 9, 12),
			cut:  mustInterval(t, 11, 13),
			want: []Interval{mustInterval(t, 9, 11)},
		},
		{
			name: "cut strictly inside splits in two",
			a:    mustInterval(t, 9, 17),
			cut:  mustInterval(t, 12, 13),
			want: []Interval{mustInterval(t, 9, 12), mustInterval(t, 13, 17)},
		},
		{
			name: "cut flush with the start leaves one piece",
			a:    mustInterval(t, 9, 17),
			cut:  mustInterval(t, 9, 10),
			want: []Interval{mustInterval(t, 10, 17)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Difference(tt.cut)
			assertIntervals(t, got, tt.want)
		})
	}
}

func TestSubtractAllIsOrderIndependent(t *testing.T) {
	base := []Interval{mustInterval(t, 9, 17)}
	cuts := []Interval{
		mustInterval(t, 10, 11),
		mustInterval(t, 12, 13),
		mustInterval(t, 15, 16),
	}

	want := []Interval{
		mustInterval(t, 9, 10),
		mustInterval(t, 11, 12),
		mustInterval(t, 13, 15),
		mustInterval(t, 16, 17),
	}

	perms := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	for _, p := range perms {
		shuffled := []Interval{cuts[p[0]], cuts[p[1]], cuts[p[2]]}
		got := SubtractAll(base, shuffled)
		assertIntervals(t, got, want)
	}
}

func TestSubtractAllWithOverlappingCuts(t *testing.T) {
	base := []Interval{mustInterval(t, 9, 17)}
	cuts := []Interval{
		mustInterval(t, 10, 13),
		mustInterval(t, 12, 14), // overlaps the previous cut
	}

	got := SubtractAll(base, cuts)
	assertIntervals(t, got, []Interval{
		mustInterval(t, 9, 10),
		mustInterval(t, 14, 17),
	})
}

func TestSubtractAllDropsEmptyBase(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	base := []Interval{{Start: start, End: start}}

	if got := SubtractAll(base, nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func assertIntervals(t *testing.T, got, want []Interval) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d intervals, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Errorf("interval %d = [%v, %v), want [%v, %v)",
				i, got[i].Start, got[i].End, want[i].Start, want[i].End)
		}
	}
}
