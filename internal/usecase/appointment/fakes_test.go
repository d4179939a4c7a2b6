package appointment

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/appointly/scheduler/internal/audit"
	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/models"
)

var errNotFound = errors.New("record not found")

// fakeRepo is an in-memory domain.Repository. Transactions run the callback
// against the same store; isolation is not simulated.
type fakeRepo struct {
	mu sync.Mutex

	business     *models.Business
	services     []models.Service
	staff        []models.StaffMember
	clients      []models.Client
	appointments []models.Appointment

	nextID uint
}

func newFakeRepo(biz *models.Business) *fakeRepo {
	return &fakeRepo{business: biz, nextID: 1}
}

func (f *fakeRepo) GetBusinessByID(ctx context.Context, id uint) (*models.Business, error) {
	if f.business == nil || f.business.ID != id {
		return nil, errNotFound
	}
	return f.business, nil
}

func (f *fakeRepo) GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	if f.business == nil || f.business.Slug != slug {
		return nil, errNotFound
	}
	return f.business, nil
}

func (f *fakeRepo) GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error) {
	for i := range f.services {
		if f.services[i].ID == serviceID && f.services[i].BusinessID == businessID {
			return &f.services[i], nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) FindStaffCapableOf(
	ctx context.Context,
	businessID uint,
	serviceID uint,
	staffID *uint,
	weekday int,
) ([]models.StaffMember, error) {

	var out []models.StaffMember
	for _, s := range f.staff {
		if s.BusinessID != businessID || !s.Active {
			continue
		}
		if staffID != nil && s.ID != *staffID {
			continue
		}
		if !staffHasService(&s, serviceID) {
			continue
		}
		worksWeekday := false
		for _, e := range s.ScheduleEntries {
			if e.Weekday == weekday {
				worksWeekday = true
				break
			}
		}
		if !worksWeekday {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func staffHasService(s *models.StaffMember, serviceID uint) bool {
	for _, svc := range s.Services {
		if svc.ID == serviceID {
			return true
		}
	}
	return false
}

func (f *fakeRepo) GetStaff(ctx context.Context, businessID, staffID uint) (*models.StaffMember, error) {
	for i := range f.staff {
		if f.staff[i].ID == staffID && f.staff[i].BusinessID == businessID {
			return &f.staff[i], nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) ReplaceScheduleEntries(ctx context.Context, staffID uint, entries []models.ScheduleEntry) error {
	for i := range f.staff {
		if f.staff[i].ID == staffID {
			f.staff[i].ScheduleEntries = entries
			return nil
		}
	}
	return errNotFound
}

func (f *fakeRepo) GetOrCreateClient(ctx context.Context, businessID uint, name, phone, email string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.clients {
		if f.clients[i].BusinessID == businessID && f.clients[i].Phone == phone {
			return &f.clients[i], nil
		}
	}

	f.clients = append(f.clients, models.Client{
		ID:         f.nextID,
		BusinessID: businessID,
		Name:       name,
		Phone:      phone,
		Email:      email,
	})
	f.nextID++
	return &f.clients[len(f.clients)-1], nil
}

func (f *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ap.ID = f.nextID
	f.nextID++
	f.appointments = append(f.appointments, *ap)
	return nil
}

func (f *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.appointments {
		if f.appointments[i].ID == ap.ID {
			f.appointments[i] = *ap
			return nil
		}
	}
	return errNotFound
}

func (f *fakeRepo) GetAppointmentForStaff(ctx context.Context, appointmentID, staffID uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.appointments {
		if f.appointments[i].ID == appointmentID && f.appointments[i].StaffID == staffID {
			ap := f.appointments[i]
			return &ap, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) FindConfirmedInRange(ctx context.Context, staffID uint, window domain.Interval) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.StaffID != staffID || ap.Status != string(domain.StatusConfirmed) {
			continue
		}
		if domain.Window(&ap).Overlaps(window) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindOverlapping(ctx context.Context, staffID uint, window domain.Interval, excludeID *uint) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.StaffID != staffID || !domain.Status(ap.Status).Blocks() {
			continue
		}
		if excludeID != nil && ap.ID == *excludeID {
			continue
		}
		if domain.Window(&ap).Overlaps(window) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAppointmentsForPeriod(ctx context.Context, staffID uint, window domain.Interval) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.StaffID == staffID && domain.Window(&ap).Overlaps(window) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) InTransaction(ctx context.Context, fn func(domain.Repository) error) error {
	return fn(f)
}

var _ domain.Repository = (*fakeRepo)(nil)

// fakeCalendar serves scripted busy intervals per staff member, or fails.
type fakeCalendar struct {
	busy map[uint][]domain.Interval
	err  error

	createdEvents int
	deletedEvents []string
}

func (f *fakeCalendar) BusyIntervalsInRange(ctx context.Context, staff *models.StaffMember, window domain.Interval) ([]domain.Interval, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.busy[staff.ID], nil
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, staff *models.StaffMember, ap *models.Appointment) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.createdEvents++
	return "evt-1", nil
}

func (f *fakeCalendar) DeleteEvent(ctx context.Context, staff *models.StaffMember, eventID string) error {
	if f.err != nil {
		return f.err
	}
	f.deletedEvents = append(f.deletedEvents, eventID)
	return nil
}

var _ domain.Calendar = (*fakeCalendar)(nil)

type fakeConferencing struct {
	err      error
	meetings int
}

func (f *fakeConferencing) CreateMeeting(ctx context.Context, ap *models.Appointment) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.meetings++
	return "meet-1", nil
}

func (f *fakeConferencing) DeleteMeeting(ctx context.Context, meetingID string) error {
	return f.err
}

var _ domain.Conferencing = (*fakeConferencing)(nil)

// discardSink drops audit events; use cases only need a live dispatcher.
type discardSink struct{}

func (discardSink) Log(businessID uint, staffID *uint, action, entity string, entityID *uint, metadata any) error {
	return nil
}

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(discardSink{}, zap.NewNop())
}
