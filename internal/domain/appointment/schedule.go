package appointment

import (
	"time"

	"github.com/appointly/scheduler/internal/models"
)

const wallClockLayout = "15:04"

// ResolveWorkingDay converts a staff member's weekly schedule entries into
// absolute intervals for one calendar date. Weekday matching and wall-clock
// anchoring both happen in the business timezone, so "Tuesday 09:00" keeps
// one meaning regardless of the caller's locale. A staff member with no
// entry for the date's weekday yields an empty list, not an error.
func ResolveWorkingDay(entries []models.ScheduleEntry, date time.Time, businessLoc *time.Location) ([]Interval, error) {
	day := date.In(businessLoc)
	weekday := int(day.Weekday())

	var out []Interval
	for _, entry := range entries {
		if entry.Weekday != weekday {
			continue
		}

		start, err := anchorWallClock(day, entry.StartTime, businessLoc)
		if err != nil {
			return nil, err
		}
		end, err := anchorWallClock(day, entry.EndTime, businessLoc)
		if err != nil {
			return nil, err
		}

		// Entries may not cross midnight.
		if !start.Before(end) {
			return nil, ErrInvalidInterval
		}

		out = append(out, Interval{Start: start, End: end})
	}
	return out, nil
}

// ParseWallClock validates an "HH:mm" string.
func ParseWallClock(hm string) error {
	_, err := time.Parse(wallClockLayout, hm)
	return err
}

func anchorWallClock(day time.Time, hm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(wallClockLayout, hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}

// DayWindow returns the absolute [midnight, next midnight) window of date in
// the business timezone. On DST transition days the window is 23 or 25 hours
// long.
func DayWindow(date time.Time, businessLoc *time.Location) Interval {
	day := date.In(businessLoc)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, businessLoc)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}
