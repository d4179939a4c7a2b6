package appointment

import (
	"context"
	"errors"

	"github.com/appointly/scheduler/internal/models"
)

// ErrCalendarUnavailable distinguishes transport failures of the external
// calendar source from an empty free-busy answer. Callers decide fail-closed
// vs. fail-open.
var ErrCalendarUnavailable = errors.New("calendar source unavailable")

type Repository interface {
	// -------- Business --------
	GetBusinessByID(
		ctx context.Context,
		id uint,
	) (*models.Business, error)

	GetBusinessBySlug(
		ctx context.Context,
		slug string,
	) (*models.Business, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		businessID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Staff / schedule --------

	// FindStaffCapableOf returns active staff members able to perform the
	// service with at least one schedule entry for weekday, optionally
	// narrowed to one staff id. Schedule entries come preloaded.
	FindStaffCapableOf(
		ctx context.Context,
		businessID uint,
		serviceID uint,
		staffID *uint,
		weekday int,
	) ([]models.StaffMember, error)

	GetStaff(
		ctx context.Context,
		businessID uint,
		staffID uint,
	) (*models.StaffMember, error)

	ReplaceScheduleEntries(
		ctx context.Context,
		staffID uint,
		entries []models.ScheduleEntry,
	) error

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		businessID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointmentForStaff(
		ctx context.Context,
		appointmentID uint,
		staffID uint,
	) (*models.Appointment, error)

	// FindConfirmedInRange returns confirmed appointments overlapping the
	// window; only confirmed ones block availability.
	FindConfirmedInRange(
		ctx context.Context,
		staffID uint,
		window Interval,
	) ([]models.Appointment, error)

	// FindOverlapping returns non-cancelled appointments overlapping the
	// window, excluding the one being updated when excludeID is set.
	FindOverlapping(
		ctx context.Context,
		staffID uint,
		window Interval,
		excludeID *uint,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		staffID uint,
		window Interval,
	) ([]models.Appointment, error)

	// InTransaction runs fn against a repository bound to a transaction
	// whose isolation prevents two concurrent requests from both passing
	// the conflict check for the same staff and interval.
	InTransaction(
		ctx context.Context,
		fn func(Repository) error,
	) error
}

// Calendar is the external free-busy collaborator for a staff member's
// connected calendar.
type Calendar interface {
	// BusyIntervalsInRange fails with an error wrapping
	// ErrCalendarUnavailable on transport failure, never silently.
	BusyIntervalsInRange(
		ctx context.Context,
		staff *models.StaffMember,
		window Interval,
	) ([]Interval, error)

	CreateEvent(
		ctx context.Context,
		staff *models.StaffMember,
		ap *models.Appointment,
	) (string, error)

	DeleteEvent(
		ctx context.Context,
		staff *models.StaffMember,
		eventID string,
	) error
}

// Conferencing owns the opaque meeting handles attached to appointments.
type Conferencing interface {
	CreateMeeting(
		ctx context.Context,
		ap *models.Appointment,
	) (string, error)

	DeleteMeeting(
		ctx context.Context,
		meetingID string,
	) error
}
