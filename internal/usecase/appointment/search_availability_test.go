package appointment

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/appointly/scheduler/internal/clock"
	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/models"
)

// 2026-03-02 is a Monday.
var testMonday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func availabilityFixture() (*fakeRepo, *fakeCalendar) {
	repo := newFakeRepo(&models.Business{
		ID:       1,
		Slug:     "acme",
		Timezone: "UTC",
	})

	svc := models.Service{ID: 10, BusinessID: 1, Name: "Consultation", DurationMin: 60, Active: true}
	repo.services = []models.Service{svc}

	repo.staff = []models.StaffMember{
		{
			ID:         100,
			BusinessID: 1,
			Name:       "Alex",
			Active:     true,
			Services:   []models.Service{svc},
			ScheduleEntries: []models.ScheduleEntry{
				{StaffID: 100, Weekday: 1, StartTime: "09:00", EndTime: "17:00"},
			},
		},
	}

	repo.nextID = 1000
	return repo, &fakeCalendar{busy: map[uint][]domain.Interval{}}
}

func newSearch(repo *fakeRepo, cal *fakeCalendar, degrade bool, clk clock.Clock) *SearchAvailability {
	busy := NewBusyBlockAggregator(repo, cal, degrade, time.Second, zap.NewNop())
	return NewSearchAvailability(repo, busy, clk)
}

func searchInput(date time.Time) domain.AvailabilityInput {
	return domain.AvailabilityInput{BusinessID: 1, ServiceID: 10, Date: date}
}

func TestSearchAvailabilityFullDay(t *testing.T) {
	repo, cal := availabilityFixture()
	clk := clock.NewFake(testMonday.AddDate(0, 0, -1))

	slots, err := newSearch(repo, cal, false, clk).Execute(context.Background(), searchInput(testMonday))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(slots) != 8 {
		t.Fatalf("expected 8 hourly slots, got %d: %v", len(slots), slots)
	}
	if !slots[0].Start.Equal(testMonday.Add(9 * time.Hour)) {
		t.Errorf("first slot = %v, want 09:00", slots[0].Start)
	}
	if !slots[7].Start.Equal(testMonday.Add(16 * time.Hour)) {
		t.Errorf("last slot = %v, want 16:00", slots[7].Start)
	}
}

func TestSearchAvailabilitySubtractsConfirmedAppointments(t *testing.T) {
	repo, cal := availabilityFixture()
	repo.appointments = []models.Appointment{
		{
			ID:        1,
			StaffID:   100,
			Status:    string(domain.StatusConfirmed),
			StartTime: testMonday.Add(12 * time.Hour),
			EndTime:   testMonday.Add(13 * time.Hour),
		},
		// Pending bookings do not block availability.
		{
			ID:        2,
			StaffID:   100,
			Status:    string(domain.StatusPending),
			StartTime: testMonday.Add(14 * time.Hour),
			EndTime:   testMonday.Add(15 * time.Hour),
		},
	}
	clk := clock.NewFake(testMonday.AddDate(0, 0, -1))

	slots, err := newSearch(repo, cal, false, clk).Execute(context.Background(), searchInput(testMonday))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(slots) != 7 {
		t.Fatalf("expected 7 slots, got %d: %v", len(slots), slots)
	}
	for _, s := range slots {
		if s.Start.Equal(testMonday.Add(12 * time.Hour)) {
			t.Error("12:00 should be blocked by the confirmed appointment")
		}
	}
}

func TestSearchAvailabilitySubtractsCalendarBusy(t *testing.T) {
	repo, cal := availabilityFixture()
	cal.busy[100] = []domain.Interval{
		{Start: testMonday.Add(9 * time.Hour), End: testMonday.Add(11 * time.Hour)},
	}
	clk := clock.NewFake(testMonday.AddDate(0, 0, -1))

	slots, err := newSearch(repo, cal, false, clk).Execute(context.Background(), searchInput(testMonday))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(slots))
	}
	if !slots[0].Start.Equal(testMonday.Add(11 * time.Hour)) {
		t.Errorf("first slot = %v, want 11:00", slots[0].Start)
	}
}

func TestSearchAvailabilityConsolidatesStaff(t *testing.T) {
	repo, cal := availabilityFixture()
	svc := repo.services[0]
	repo.staff = append(repo.staff, models.StaffMember{
		ID:         200,
		BusinessID: 1,
		Name:       "Blake",
		Active:     true,
		Services:   []models.Service{svc},
		ScheduleEntries: []models.ScheduleEntry{
			{StaffID: 200, Weekday: 1, StartTime: "14:00", EndTime: "17:00"},
		},
	})
	clk := clock.NewFake(testMonday.AddDate(0, 0, -1))

	slots, err := newSearch(repo, cal, false, clk).Execute(context.Background(), searchInput(testMonday))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// One slot per start instant, never one per staff member.
	if len(slots) != 8 {
		t.Fatalf("expected 8 consolidated slots, got %d", len(slots))
	}

	for _, s := range slots {
		switch {
		case s.Start.Equal(testMonday.Add(14 * time.Hour)):
			if len(s.StaffIDs) != 2 {
				t.Errorf("14:00 staff = %v, want both", s.StaffIDs)
			}
		case s.Start.Equal(testMonday.Add(9 * time.Hour)):
			if len(s.StaffIDs) != 1 || s.StaffIDs[0] != 100 {
				t.Errorf("09:00 staff = %v, want [100]", s.StaffIDs)
			}
		}
	}
}

func TestSearchAvailabilityFiltersToRequestedStaff(t *testing.T) {
	repo, cal := availabilityFixture()
	svc := repo.services[0]
	repo.staff = append(repo.staff, models.StaffMember{
		ID:         200,
		BusinessID: 1,
		Active:     true,
		Services:   []models.Service{svc},
		ScheduleEntries: []models.ScheduleEntry{
			{StaffID: 200, Weekday: 1, StartTime: "14:00", EndTime: "17:00"},
		},
	})
	clk := clock.NewFake(testMonday.AddDate(0, 0, -1))

	in := searchInput(testMonday)
	only := uint(200)
	in.StaffID = &only

	slots, err := newSearch(repo, cal, false, clk).Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(slots) != 3 {
		t.Fatalf("expected 3 slots for staff 200, got %d", len(slots))
	}
	for _, s := range slots {
		if len(s.StaffIDs) != 1 || s.StaffIDs[0] != 200 {
			t.Errorf("slot staff = %v, want [200]", s.StaffIDs)
		}
	}
}

func TestSearchAvailabilityPrunesPastSlots(t *testing.T) {
	repo, cal := availabilityFixture()
	clk := clock.NewFake(testMonday.Add(10*time.Hour + 30*time.Minute))

	slots, err := newSearch(repo, cal, false, clk).Execute(context.Background(), searchInput(testMonday))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(slots) == 0 {
		t.Fatal("expected remaining slots")
	}
	// Free time is truncated at now, not discarded wholesale.
	if !slots[0].Start.Equal(testMonday.Add(10*time.Hour + 30*time.Minute)) {
		t.Errorf("first slot = %v, want 10:30", slots[0].Start)
	}
	for _, s := range slots {
		if s.Start.Before(clk.Now()) {
			t.Errorf("slot %v starts in the past", s.Start)
		}
	}
}

func TestSearchAvailabilityCalendarFailClosed(t *testing.T) {
	repo, cal := availabilityFixture()
	cal.err = domain.ErrCalendarUnavailable
	clk := clock.NewFake(testMonday.AddDate(0, 0, -1))

	_, err := newSearch(repo, cal, false, clk).Execute(context.Background(), searchInput(testMonday))
	if !httperr.IsBusiness(err, httperr.CodeCalendarUnavailable) {
		t.Fatalf("expected calendar_unavailable, got %v", err)
	}
}

func TestSearchAvailabilityCalendarDegrades(t *testing.T) {
	repo, cal := availabilityFixture()
	cal.err = domain.ErrCalendarUnavailable
	clk := clock.NewFake(testMonday.AddDate(0, 0, -1))

	slots, err := newSearch(repo, cal, true, clk).Execute(context.Background(), searchInput(testMonday))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// The affected staff member counts as fully busy.
	if len(slots) != 0 {
		t.Fatalf("expected no slots in degraded mode, got %v", slots)
	}
}

func TestSearchAvailabilityUnknownService(t *testing.T) {
	repo, cal := availabilityFixture()
	clk := clock.NewFake(testMonday.AddDate(0, 0, -1))

	in := searchInput(testMonday)
	in.ServiceID = 999

	_, err := newSearch(repo, cal, false, clk).Execute(context.Background(), in)
	if !httperr.IsBusiness(err, httperr.CodeServiceNotFound) {
		t.Fatalf("expected service_not_found, got %v", err)
	}
}

func TestSearchAvailabilityInactiveServiceRejected(t *testing.T) {
	repo, cal := availabilityFixture()
	repo.services[0].Active = false
	clk := clock.NewFake(testMonday.AddDate(0, 0, -1))

	_, err := newSearch(repo, cal, false, clk).Execute(context.Background(), searchInput(testMonday))
	if !httperr.IsBusiness(err, httperr.CodeServiceNotFound) {
		t.Fatalf("expected service_not_found, got %v", err)
	}
}

func TestSearchAvailabilityOffDay(t *testing.T) {
	repo, cal := availabilityFixture()
	clk := clock.NewFake(testMonday.AddDate(0, 0, -1))

	// Tuesday has no schedule entries.
	slots, err := newSearch(repo, cal, false, clk).Execute(context.Background(), searchInput(testMonday.AddDate(0, 0, 1)))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on an off day, got %v", slots)
	}
}
