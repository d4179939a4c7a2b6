package appointment

import (
	"errors"
	"sort"
	"time"
)

// ErrInvalidInterval reports a caller contract violation: an interval whose
// start is after its end. Input validation at the HTTP boundary should make
// this unreachable.
var ErrInvalidInterval = errors.New("interval start must not be after end")

// Interval is a half-open time range [Start, End). Touching intervals do not
// overlap.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewInterval(start, end time.Time) (Interval, error) {
	if start.After(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

func (a Interval) IsEmpty() bool {
	return !a.Start.Before(a.End)
}

func (a Interval) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

// Overlaps reports whether a and b share at least one instant.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// ContainedWithin reports whether a lies entirely inside container.
func (a Interval) ContainedWithin(container Interval) bool {
	return !a.Start.Before(container.Start) && !a.End.After(container.End)
}

// Difference returns the portions of a not covered by cut: zero, one, or two
// intervals. A cut strictly inside a splits it. Zero-length leftovers are
// dropped.
func (a Interval) Difference(cut Interval) []Interval {
	if a.IsEmpty() {
		return nil
	}
	if !a.Overlaps(cut) {
		return []Interval{a}
	}

	var out []Interval
	if a.Start.Before(cut.Start) {
		out = append(out, Interval{Start: a.Start, End: cut.Start})
	}
	if cut.End.Before(a.End) {
		out = append(out, Interval{Start: cut.End, End: a.End})
	}
	return out
}

// SubtractAll removes every cut from every base interval. The result depends
// only on the set of cuts, not on the order they are applied.
func SubtractAll(base []Interval, cuts []Interval) []Interval {
	remaining := make([]Interval, 0, len(base))
	for _, b := range base {
		if !b.IsEmpty() {
			remaining = append(remaining, b)
		}
	}

	for _, cut := range cuts {
		next := make([]Interval, 0, len(remaining))
		for _, r := range remaining {
			next = append(next, r.Difference(cut)...)
		}
		remaining = next
	}

	sort.Slice(remaining, func(i, j int) bool {
		return remaining[i].Start.Before(remaining[j].Start)
	})
	return remaining
}
