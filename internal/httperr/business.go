package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Business error codes shared between use cases and handlers.
const (
	CodeInvalidDate          = "invalid_date"
	CodeInvalidTimezone      = "invalid_timezone"
	CodeServiceNotFound      = "service_not_found"
	CodeStaffNotFound        = "staff_not_found"
	CodeStaffNotCapable      = "staff_not_capable"
	CodeAppointmentNotFound  = "appointment_not_found"
	CodeSlotConflict         = "slot_conflict"
	CodeCalendarUnavailable  = "calendar_unavailable"
	CodeOutsideWorkingHours  = "outside_working_hours"
	CodeInvalidState         = "invalid_state"
	CodeTooSoon              = "too_soon"
	CodeInvalidScheduleEntry = "invalid_schedule_entry"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

var statusByCode = map[string]int{
	CodeInvalidDate:          http.StatusBadRequest,
	CodeInvalidTimezone:      http.StatusBadRequest,
	CodeOutsideWorkingHours:  http.StatusBadRequest,
	CodeTooSoon:              http.StatusBadRequest,
	CodeInvalidState:         http.StatusBadRequest,
	CodeInvalidScheduleEntry: http.StatusBadRequest,
	CodeServiceNotFound:      http.StatusNotFound,
	CodeStaffNotFound:        http.StatusNotFound,
	CodeAppointmentNotFound:  http.StatusNotFound,
	CodeStaffNotCapable:      http.StatusUnprocessableEntity,
	CodeSlotConflict:         http.StatusConflict,
	CodeCalendarUnavailable:  http.StatusServiceUnavailable,
}

var messageByCode = map[string]string{
	CodeSlotConflict:        "The selected time is no longer available.",
	CodeCalendarUnavailable: "The external calendar could not be reached.",
}

// Respond maps a use-case error to an HTTP response. Business errors carry
// their code; anything else is an opaque internal error.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		status, ok := statusByCode[be.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		Write(c, status, be.Code, messageByCode[be.Code])
		return
	}
	Internal(c, "internal_error", "Unexpected error.")
}
