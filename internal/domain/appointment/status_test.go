package appointment

import (
	"testing"
	"time"

	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/models"
)

func TestStatusBlocks(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusConfirmed, true},
		{StatusCompleted, true},
		{StatusCancelled, false},
	}

	for _, tt := range tests {
		if got := tt.status.Blocks(); got != tt.want {
			t.Errorf("%s.Blocks() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		check   func(Status) error
		from    Status
		allowed bool
	}{
		{"confirm pending", CanConfirm, StatusPending, true},
		{"confirm confirmed", CanConfirm, StatusConfirmed, false},
		{"confirm cancelled", CanConfirm, StatusCancelled, false},
		{"cancel pending", CanCancel, StatusPending, true},
		{"cancel confirmed", CanCancel, StatusConfirmed, true},
		{"cancel completed", CanCancel, StatusCompleted, false},
		{"cancel cancelled", CanCancel, StatusCancelled, false},
		{"complete confirmed", CanComplete, StatusConfirmed, true},
		{"complete pending", CanComplete, StatusPending, false},
		{"reschedule pending", CanReschedule, StatusPending, true},
		{"reschedule confirmed", CanReschedule, StatusConfirmed, true},
		{"reschedule completed", CanReschedule, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.from)
			if tt.allowed && err != nil {
				t.Errorf("expected transition allowed, got %v", err)
			}
			if !tt.allowed && !httperr.IsBusiness(err, httperr.CodeInvalidState) {
				t.Errorf("expected invalid_state, got %v", err)
			}
		})
	}
}

func TestConfirmSetsTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusPending)}

	if err := Confirm(ap, now); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if ap.Status != string(StatusConfirmed) {
		t.Errorf("status = %s, want confirmed", ap.Status)
	}
	if ap.ConfirmedAt == nil || !ap.ConfirmedAt.Equal(now) {
		t.Errorf("ConfirmedAt = %v, want %v", ap.ConfirmedAt, now)
	}
}

func TestCancelAfterCompleteRejected(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusCompleted)}

	err := Cancel(ap, now)
	if !httperr.IsBusiness(err, httperr.CodeInvalidState) {
		t.Fatalf("expected invalid_state, got %v", err)
	}
	if ap.Status != string(StatusCompleted) {
		t.Errorf("status mutated on rejected transition: %s", ap.Status)
	}
}

func TestWindow(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{StartTime: start, EndTime: start.Add(time.Hour)}

	w := Window(ap)
	if !w.Start.Equal(start) || !w.End.Equal(start.Add(time.Hour)) {
		t.Errorf("Window = [%v, %v)", w.Start, w.End)
	}
}
