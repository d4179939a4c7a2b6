package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/models"
	"github.com/appointly/scheduler/internal/timezone"
	uc "github.com/appointly/scheduler/internal/usecase/appointment"
)

// PublicHandler serves the unauthenticated booking surface, addressed by
// business slug. Slot instants are computed in the business timezone and
// only rendered in the caller's.
type PublicHandler struct {
	db     *gorm.DB
	repo   domain.Repository
	search *uc.SearchAvailability
	create *uc.CreateAppointment
}

func NewPublicHandler(
	db *gorm.DB,
	repo domain.Repository,
	search *uc.SearchAvailability,
	create *uc.CreateAppointment,
) *PublicHandler {
	return &PublicHandler{
		db:     db,
		repo:   repo,
		search: search,
		create: create,
	}
}

type PublicCreateAppointmentRequest struct {
	StaffID   uint `json:"staff_id" binding:"required"`
	ServiceID uint `json:"service_id" binding:"required"`

	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`

	Date     string `json:"date" binding:"required"` // "2006-01-02"
	Time     string `json:"time" binding:"required"` // "15:04"
	Timezone string `json:"timezone"`
	Notes    string `json:"notes"`
}

type publicSlot struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	StaffIDs []uint    `json:"staff_ids"`
}

func (h *PublicHandler) business(c *gin.Context) (*models.Business, bool) {
	biz, err := h.repo.GetBusinessBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.NotFound(c, "business_not_found", "Business not found.")
		return nil, false
	}
	return biz, true
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	biz, ok := h.business(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("business_id = ? AND active = ?", biz.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {

		httperr.Internal(c, "failed_to_list_services", "Failed to list services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": gin.H{
			"name":     biz.Name,
			"slug":     biz.Slug,
			"timezone": biz.Timezone,
		},
		"services": services,
	})
}

func (h *PublicHandler) Availability(c *gin.Context) {
	biz, ok := h.business(c)
	if !ok {
		return
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Query param service_id is required.")
		return
	}

	date, err := parseDateInBusiness(biz, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidDate, "Query param date must be YYYY-MM-DD.")
		return
	}

	// The caller's zone shapes rendering only, never which slots exist.
	callerLoc, err := businessLocation(biz)
	if err != nil {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeInvalidTimezone))
		return
	}
	if tz := c.Query("timezone"); tz != "" {
		callerLoc, err = timezone.Location(tz)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidTimezone, "Unknown IANA timezone name.")
			return
		}
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
		BusinessID: biz.ID,
		ServiceID:  uint(serviceID),
		StaffID:    staffID,
		Date:       date,
		Timezone:   callerLoc.String(),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]publicSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, publicSlot{
			Start:    s.Start.In(callerLoc),
			End:      s.End.In(callerLoc),
			StaffIDs: s.StaffIDs,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":     date.Format("2006-01-02"),
		"timezone": callerLoc.String(),
		"slots":    out,
	})
}

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	biz, ok := h.business(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), uc.CreateAppointmentInput{
		BusinessID:  biz.ID,
		StaffID:     req.StaffID,
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

	c.JSON(http.StatusCreated, gin.H{
		"reference":  ap.Reference,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
		"status":     ap.Status,
		"timezone":   ap.Timezone,
	})
}
