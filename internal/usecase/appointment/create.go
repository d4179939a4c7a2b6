package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/appointly/scheduler/internal/audit"
	"github.com/appointly/scheduler/internal/clock"
	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/models"
	"github.com/appointly/scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BusinessID uint
	StaffID    uint
	ServiceID  uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date     string // "2006-01-02", business-zone wall clock
	Time     string // "15:04"
	Timezone string // caller display zone, stored on the appointment
	Notes    string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock clock.Clock
}

func NewCreateAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	clk clock.Clock,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: auditDispatcher,
		clock: clk,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	loc, err := timezone.Location(biz.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTimezone)
	}

	displayTZ := in.Timezone
	if displayTZ == "" {
		displayTZ = biz.Timezone
	} else if !timezone.IsValid(displayTZ) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTimezone)
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

	svc, err := uc.repo.GetService(ctx, in.BusinessID, in.ServiceID)
	if err != nil || !svc.Active || svc.DurationMin <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
	}

	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	candidate, err := domain.NewInterval(start, end)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}

	staff, err := uc.resolveStaff(ctx, in.BusinessID, in.StaffID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if err := withinWorkingHours(staff, candidate, loc); err != nil {
		return nil, err
	}

	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.BusinessID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		Reference:  uuid.New(),
		BusinessID: in.BusinessID,
		StaffID:    in.StaffID,
		ClientID:   client.ID,
		ServiceID:  svc.ID,
		StartTime:  start,
		EndTime:    end,
		Timezone:   displayTZ,
		Status:     string(domain.InitialStatus()),
		Notes:      in.Notes,
	}

	// Conflict check and insert share one serializable transaction so two
	// concurrent requests cannot both pass the guard for the same slot.
	err = uc.repo.InTransaction(ctx, func(tx domain.Repository) error {
		if err := guardConflicts(ctx, tx, in.StaffID, candidate, nil); err != nil {
			return err
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		StaffID:    &in.StaffID,
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}

func (uc *CreateAppointment) resolveStaff(
	ctx context.Context,
	businessID uint,
	staffID uint,
	serviceID uint,
) (*models.StaffMember, error) {

	staff, err := uc.repo.GetStaff(ctx, businessID, staffID)
	if err != nil || !staff.Active {
		return nil, httperr.ErrBusiness(httperr.CodeStaffNotFound)
	}

	for _, svc := range staff.Services {
		if svc.ID == serviceID {
			return staff, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeStaffNotCapable)
}

// withinWorkingHours requires the candidate to sit entirely inside one of
// the staff member's working-hour blocks for that date.
func withinWorkingHours(
	staff *models.StaffMember,
	candidate domain.Interval,
	loc *time.Location,
) error {

	base, err := domain.ResolveWorkingDay(staff.ScheduleEntries, candidate.Start, loc)
	if err != nil {
		return err
	}

	for _, block := range base {
		if candidate.ContainedWithin(block) {
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeOutsideWorkingHours)
}

// guardConflicts applies the overlap test against every non-cancelled
// appointment of the staff member, excluding the one being updated.
func guardConflicts(
	ctx context.Context,
	repo domain.Repository,
	staffID uint,
	candidate domain.Interval,
	excludeID *uint,
) error {

	existing, err := repo.FindOverlapping(ctx, staffID, candidate, excludeID)
	if err != nil {
		return err
	}

	for i := range existing {
		if domain.Window(&existing[i]).Overlaps(candidate) {
			return httperr.ErrBusiness(httperr.CodeSlotConflict)
		}
	}
	return nil
}
