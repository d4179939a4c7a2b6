package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/middleware"
	uc "github.com/appointly/scheduler/internal/usecase/appointment"
)

// AppointmentHandler exposes the staff-facing appointment operations. All
// scheduling decisions live in the use cases; the handler only translates
// HTTP in and out.
type AppointmentHandler struct {
	repo domain.Repository

	search     *uc.SearchAvailability
	create     *uc.CreateAppointment
	reschedule *uc.RescheduleAppointment
	confirm    *uc.ConfirmAppointment
	cancel     *uc.CancelAppointment
	complete   *uc.CompleteAppointment
	listByDate *uc.ListAppointmentsByDate
	listByMon  *uc.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	repo domain.Repository,
	search *uc.SearchAvailability,
	create *uc.CreateAppointment,
	reschedule *uc.RescheduleAppointment,
	confirm *uc.ConfirmAppointment,
	cancel *uc.CancelAppointment,
	complete *uc.CompleteAppointment,
	listByDate *uc.ListAppointmentsByDate,
	listByMon *uc.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		repo:       repo,
		search:     search,
		create:     create,
		reschedule: reschedule,
		confirm:    confirm,
		cancel:     cancel,
		complete:   complete,
		listByDate: listByDate,
		listByMon:  listByMon,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	StaffID   uint `json:"staff_id"`
	ServiceID uint `json:"service_id" binding:"required"`

	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`

	Date     string `json:"date" binding:"required"` // "2006-01-02"
	Time     string `json:"time" binding:"required"` // "15:04"
	Timezone string `json:"timezone"`
	Notes    string `json:"notes"`
}

type RescheduleAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Query param service_id is required.")
		return
	}

	biz, err := h.repo.GetBusinessByID(c.Request.Context(), businessID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	date, err := parseDateInBusiness(biz, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Query param date must be YYYY-MM-DD.")
		return
	}

	var staffID *uint
	if raw := c.Query("staff_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_staff_id", "Query param staff_id must be numeric.")
			return
		}
		v := uint(id)
		staffID = &v
	}

	slots, err := h.search.Execute(c.Request.Context(), domain.AvailabilityInput{
		BusinessID: businessID,
		ServiceID:  uint(serviceID),
		StaffID:    staffID,
		Date:       date,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	})
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	// Staff book for themselves unless the payload targets a colleague.
	targetStaff := req.StaffID
	if targetStaff == 0 {
		targetStaff = staffID
	}

	ap, err := h.create.Execute(c.Request.Context(), uc.CreateAppointmentInput{
		BusinessID:  businessID,
		StaffID:     targetStaff,
		ServiceID:   req.ServiceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Timezone:    req.Timezone,
		Notes:       req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	appointmentID, ok := h.appointmentParam(c)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), uc.RescheduleAppointmentInput{
		BusinessID:    businessID,
		StaffID:       staffID,
		AppointmentID: appointmentID,
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	appointmentID, ok := h.appointmentParam(c)
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), businessID, staffID, appointmentID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	appointmentID, ok := h.appointmentParam(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), businessID, staffID, appointmentID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	appointmentID, ok := h.appointmentParam(c)
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), businessID, staffID, appointmentID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// LISTINGS
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	biz, err := h.repo.GetBusinessByID(c.Request.Context(), businessID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	date, err := parseDateInBusiness(biz, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Query param date must be YYYY-MM-DD.")
		return
	}

	out, err := h.listByDate.Execute(c.Request.Context(), staffID, businessID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)
	businessID := c.MustGet(middleware.ContextBusinessID).(uint)

	year, err1 := strconv.Atoi(c.Query("year"))
	month, err2 := strconv.Atoi(c.Query("month"))
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Query params year and month are required.")
		return
	}

	out, err := h.listByMon.Execute(c.Request.Context(), staffID, businessID, year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *AppointmentHandler) appointmentParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return 0, false
	}
	return uint(id), true
}
