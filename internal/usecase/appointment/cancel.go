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

type CancelAppointment struct {
	repo         domain.Repository
	audit        *audit.Dispatcher
	calendar     domain.Calendar
	conferencing domain.Conferencing
	clock        clock.Clock
	log          *zap.Logger
}

func NewCancelAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	calendar domain.Calendar,
	conferencing domain.Conferencing,
	clk clock.Clock,
	log *zap.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		repo:         repo,
		audit:        auditDispatcher,
		calendar:     calendar,
		conferencing: conferencing,
		clock:        clk,
		log:          log,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	businessID uint,
	staffID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForStaff(ctx, appointmentID, staffID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeAppointmentNotFound)
	}

	if err := domain.Cancel(ap, uc.clock.Now()); err != nil {
		return nil, err
	}

	// Attempt cleanup of externally-linked resources before persisting; a
	// handle is cleared only once its owner confirmed the deletion.
	if ap.CalendarEventID != "" {
		staff, err := uc.repo.GetStaff(ctx, businessID, staffID)
		if err == nil {
			if err := uc.calendar.DeleteEvent(ctx, staff, ap.CalendarEventID); err != nil {
				uc.log.Warn("calendar event cleanup failed",
					zap.Uint("appointment_id", ap.ID),
					zap.Error(err),
				)
			} else {
				ap.CalendarEventID = ""
			}
		}
	}

	if ap.MeetingID != "" {
		if err := uc.conferencing.DeleteMeeting(ctx, ap.MeetingID); err != nil {
			uc.log.Warn("meeting cleanup failed",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
		} else {
			ap.MeetingID = ""
		}
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		StaffID:    &staffID,
		Action:     "appointment_cancelled",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}
