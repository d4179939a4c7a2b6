package handlers

import (
	"time"

	"github.com/appointly/scheduler/internal/models"
	"github.com/appointly/scheduler/internal/timezone"
)

// The business zone, not the caller's, decides which weekday a date falls
// on. Helpers fail loudly rather than guessing a zone.

func businessLocation(biz *models.Business) (*time.Location, error) {
	return timezone.Location(biz.Timezone)
}

func parseDateInBusiness(biz *models.Business, dateStr string) (time.Time, error) {
	loc, err := businessLocation(biz)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation("2006-01-02", dateStr, loc)
}
