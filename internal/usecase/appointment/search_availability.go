package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/appointly/scheduler/internal/clock"
	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/models"
	"github.com/appointly/scheduler/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

// SearchAvailability computes the bookable slots for a service on one
// calendar date across every eligible staff member.
type SearchAvailability struct {
	repo  domain.Repository
	busy  *BusyBlockAggregator
	clock clock.Clock
}

func NewSearchAvailability(
	repo domain.Repository,
	busy *BusyBlockAggregator,
	clk clock.Clock,
) *SearchAvailability {
	return &SearchAvailability{
		repo:  repo,
		busy:  busy,
		clock: clk,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SearchAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.AvailableSlot, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	loc, err := timezone.Location(biz.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTimezone)
	}

	svc, err := uc.repo.GetService(ctx, in.BusinessID, in.ServiceID)
	if err != nil || !svc.Active || svc.DurationMin <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
	}

	window := domain.DayWindow(in.Date, loc)
	weekday := int(window.Start.Weekday())

	staff, err := uc.repo.FindStaffCapableOf(ctx, in.BusinessID, in.ServiceID, in.StaffID, weekday)
	if err != nil {
		return nil, err
	}

	// Per-staff fetches are independent; run them concurrently and wait for
	// all before consolidating.
	freeByStaff := make([][]domain.Interval, len(staff))
	errByStaff := make([]error, len(staff))

	var wg sync.WaitGroup
	for i := range staff {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			freeByStaff[i], errByStaff[i] = uc.freeIntervals(ctx, &staff[i], window, loc)
		}(i)
	}
	wg.Wait()

	for _, err := range errByStaff {
		if err != nil {
			return nil, err
		}
	}

	slots := uc.consolidate(staff, freeByStaff, time.Duration(svc.DurationMin)*time.Minute)

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	return slots, nil
}

func (uc *SearchAvailability) freeIntervals(
	ctx context.Context,
	staff *models.StaffMember,
	window domain.Interval,
	loc *time.Location,
) ([]domain.Interval, error) {

	base, err := domain.ResolveWorkingDay(staff.ScheduleEntries, window.Start, loc)
	if err != nil {
		return nil, err
	}
	if len(base) == 0 {
		// Not worked that day; contributes no intervals.
		return nil, nil
	}

	blocks, err := uc.busy.Collect(ctx, staff, window)
	if err != nil {
		return nil, err
	}

	return domain.SubtractAll(base, blocks), nil
}

// consolidate slices each free interval into contiguous duration-sized slots
// and merges identical start instants across staff, keeping staff processing
// order in the merged list.
func (uc *SearchAvailability) consolidate(
	staff []models.StaffMember,
	freeByStaff [][]domain.Interval,
	duration time.Duration,
) []domain.AvailableSlot {

	now := uc.clock.Now()

	index := make(map[int64]int)
	slots := make([]domain.AvailableSlot, 0)

	for i, free := range freeByStaff {
		staffID := staff[i].ID

		for _, iv := range free {
			// Drop the past: truncate the interval so nothing starts
			// before now.
			start := iv.Start
			if start.Before(now) {
				start = now
			}

			for cur := start; !cur.Add(duration).After(iv.End); cur = cur.Add(duration) {
				key := cur.UnixNano()
				if pos, ok := index[key]; ok {
					slots[pos].StaffIDs = append(slots[pos].StaffIDs, staffID)
					continue
				}
				index[key] = len(slots)
				slots = append(slots, domain.AvailableSlot{
					Start:    cur,
					End:      cur.Add(duration),
					StaffIDs: []uint{staffID},
				})
			}
		}
	}

	return slots
}
