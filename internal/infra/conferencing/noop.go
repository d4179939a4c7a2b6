package conferencing

import (
	"context"

	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/models"
)

// Noop is the conferencing collaborator for deployments without video
// meetings.
type Noop struct{}

func (Noop) CreateMeeting(ctx context.Context, ap *models.Appointment) (string, error) {
	return "", nil
}

func (Noop) DeleteMeeting(ctx context.Context, meetingID string) error {
	return nil
}

// Compile-time check
var _ domain.Conferencing = Noop{}
