package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/appointly/scheduler/internal/domain/appointment"
	"github.com/appointly/scheduler/internal/httperr"
	"github.com/appointly/scheduler/internal/middleware"
	"github.com/appointly/scheduler/internal/models"
)

type ScheduleHandler struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewScheduleHandler(db *gorm.DB, repo domain.Repository) *ScheduleHandler {
	return &ScheduleHandler{db: db, repo: repo}
}

type ScheduleEntryConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type ScheduleUpdateRequest struct {
	Entries []ScheduleEntryConfig `json:"entries" binding:"required"`
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)

	var entries []models.ScheduleEntry
	if err := h.db.
		Where("staff_id = ?", staffID).
		Order("weekday ASC, start_time ASC").
		Find(&entries).Error; err != nil {

		httperr.Internal(c, "failed_to_get_schedule", "Failed to load schedule.")
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Update replaces the staff member's whole weekly schedule. Entries are
// wall-clock times in the business timezone; an entry may not cross
// midnight.
func (h *ScheduleHandler) Update(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)

	var req ScheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request payload.")
		return
	}

	var toCreate []models.ScheduleEntry
	for _, e := range req.Entries {
		if domain.ParseWallClock(e.StartTime) != nil ||
			domain.ParseWallClock(e.EndTime) != nil ||
			e.StartTime >= e.EndTime {
			httperr.BadRequest(c, httperr.CodeInvalidScheduleEntry,
				"Entries need HH:mm times with start before end on the same day.")
			return
		}

		toCreate = append(toCreate, models.ScheduleEntry{
			StaffID:   staffID,
			Weekday:   e.Weekday,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
		})
	}

	if err := h.repo.ReplaceScheduleEntries(c.Request.Context(), staffID, toCreate); err != nil {
		httperr.Internal(c, "failed_to_save_schedule", "Failed to save schedule.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
