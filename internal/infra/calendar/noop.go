package calendar

import (
	"context"

	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/models"
)

// Noop serves deployments without a connected calendar: no busy time, no
// events.
type Noop struct{}

func (Noop) BusyIntervalsInRange(
	ctx context.Context,
	staff *models.StaffMember,
	window domain.Interval,
) ([]domain.Interval, error) {
	return nil, nil
}

func (Noop) CreateEvent(
	ctx context.Context,
	staff *models.StaffMember,
	ap *models.Appointment,
) (string, error) {
	return "", nil
}

func (Noop) DeleteEvent(
	ctx context.Context,
	staff *models.StaffMember,
	eventID string,
) error {
	return nil
}

// Compile-time check
var _ domain.Calendar = Noop{}
