package appointment

import (
	"context"

	"go.uber.org/zap"

	"github.com/appointly/scheduler/internal/audit"
	"github.com/appointly/scheduler/internal/clock"
	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/models"
)

type ConfirmAppointment struct {
	repo         domain.Repository
	audit        *audit.Dispatcher
	calendar     domain.Calendar
	conferencing domain.Conferencing
	clock        clock.Clock
	log          *zap.Logger
}

func NewConfirmAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	calendar domain.Calendar,
	conferencing domain.Conferencing,
	clk clock.Clock,
	log *zap.Logger,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:         repo,
		audit:        auditDispatcher,
		calendar:     calendar,
		conferencing: conferencing,
		clock:        clk,
		log:          log,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	businessID uint,
	staffID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForStaff(ctx, appointmentID, staffID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}

	if err := domain.Confirm(ap, uc.clock.Now()); err != nil {
		return nil, err
	}

	// External resources are best-effort: a calendar or conferencing outage
	// must not undo a confirmed booking. Failures are logged and the
	// handles stay empty.
	staff, err := uc.repo.GetStaff(ctx, businessID, staffID)
	if err == nil {
		if eventID, err := uc.calendar.CreateEvent(ctx, staff, ap); err != nil {
			uc.log.Warn("calendar event creation failed",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
		} else {
			ap.CalendarEventID = eventID
		}
	}

	if meetingID, err := uc.conferencing.CreateMeeting(ctx, ap); err != nil {
		uc.log.Warn("meeting creation failed",
			zap.Uint("appointment_id", ap.ID),
			zap.Error(err),
		)
	} else {
		ap.MeetingID = meetingID
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		StaffID:    &staffID,
		Action:     "appointment_confirmed",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
