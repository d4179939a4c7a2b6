package appointment

import (
	"context"
	"time"

	"github.com/appointly/scheduler/internal/audit"
	"github.com/appointly/scheduler/internal/clock"
	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/models"
	"github.com/appointly/scheduler/internal/timezone"
)

type RescheduleAppointmentInput struct {
	BusinessID    uint
	StaffID       uint
	AppointmentID uint

	Date string // "2006-01-02", business-zone wall clock
	Time string // "15:04"
}

type RescheduleAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock clock.Clock
}

func NewRescheduleAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	clk clock.Clock,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:  repo,
		audit: auditDispatcher,
		clock: clk,
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleAppointmentInput,
) (*models.Appointment, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	loc, err := timezone.Location(biz.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTimezone)
	}

	ap, err := uc.repo.GetAppointmentForStaff(ctx, in.AppointmentID, in.StaffID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}

	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}

	minAdvance := biz.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}

	now := uc.clock.Now()
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness(httperr.CodeTooSoon)
	}

	// Duration carries over from the original booking.
	end := start.Add(ap.EndTime.Sub(ap.StartTime))

	candidate, err := domain.NewInterval(start, end)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}

	staff, err := uc.repo.GetStaff(ctx, in.BusinessID, in.StaffID)
	if err != nil || !staff.Active {
		return nil, httperr.ErrBusiness(httperr.CodeStaffNotFound)
	}

	if err := withinWorkingHours(staff, candidate, loc); err != nil {
		return nil, err
	}

	err = uc.repo.InTransaction(ctx, func(tx domain.Repository) error {
		if err := guardConflicts(ctx, tx, in.StaffID, candidate, &ap.ID); err != nil {
			return err
		}

		ap.StartTime = start
		ap.EndTime = end
		return tx.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		StaffID:    &in.StaffID,
		Action:     "appointment_rescheduled",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
