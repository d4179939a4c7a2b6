package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/models"
)

// BusyBlockAggregator collects every interval during which a staff member
// cannot be booked within a day window: confirmed appointments from the
// internal store plus busy time reported by the external calendar. The two
// sources are not deduplicated; overlapping cuts subtract cleanly.
type BusyBlockAggregator struct {
	repo     domain.Repository
	calendar domain.Calendar
	degrade  bool
	timeout  time.Duration
	log      *zap.Logger
}

func NewBusyBlockAggregator(
	repo domain.Repository,
	calendar domain.Calendar,
	degrade bool,
	timeout time.Duration,
	log *zap.Logger,
) *BusyBlockAggregator {
	return &BusyBlockAggregator{
		repo:     repo,
		calendar: calendar,
		degrade:  degrade,
		timeout:  timeout,
		log:      log,
	}
}

func (a *BusyBlockAggregator) Collect(
	ctx context.Context,
	staff *models.StaffMember,
	window domain.Interval,
) ([]domain.Interval, error) {

	apps, err := a.repo.FindConfirmedInRange(ctx, staff.ID, window)
	if err != nil {
		return nil, err
	}

	blocks := make([]domain.Interval, 0, len(apps))
	for i := range apps {
		blocks = append(blocks, domain.Window(&apps[i]))
	}

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	busy, err := a.calendar.BusyIntervalsInRange(cctx, staff, window)
	if err != nil {
		if !a.degrade {
			return nil, httperr.ErrBusiness(httperr.CodeCalendarUnavailable)
		}

		// Degraded availability, never degraded safety: the whole day
		// becomes busy for this staff member.
		a.log.Warn("calendar source failed, treating staff member as fully busy",
			zap.Uint("staff_id", staff.ID),
			zap.Error(err),
		)
		return append(blocks, window), nil
	}

	return append(blocks, busy...), nil
}
