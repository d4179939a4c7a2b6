package appointment

import (
	"context"
	"time"

	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/dto"
	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(
	repo domain.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	staffID uint,
	businessID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	biz, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	loc, err := timezone.Location(biz.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTimezone)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	window := domain.Interval{Start: start, End: start.AddDate(0, 1, 0)}

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, staffID, window)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:          ap.ID,
			StartTime:   ap.StartTime,
			EndTime:     ap.EndTime,
			Status:      ap.Status,
			ClientName:  ap.Client.Name,
			ServiceName: ap.Service.Name,
		})
	}

	return out, nil
}
