package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appointly/scheduler/internal/middleware"
	"github.com/appointly/scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	staffIDVal, exists := c.Get(middleware.ContextStaffID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "staff_not_in_context"})
		return
	}

	staffID, ok := staffIDVal.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_staff_id_type"})
		return
	}

	var staff models.StaffMember
	if err := h.db.Preload("Business").First(&staff, staffID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "staff_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"staff": gin.H{
			"id":           staff.ID,
			"name":         staff.Name,
			"email":        staff.Email,
			"phone":        staff.Phone,
			"role":         staff.Role,
			"calendar_ref": staff.CalendarRef,
			"business_id":  staff.BusinessID,
		},
		"business": gin.H{
			"id":       staff.Business.ID,
			"name":     staff.Business.Name,
			"slug":     staff.Business.Slug,
			"phone":    staff.Business.Phone,
			"address":  staff.Business.Address,
			"timezone": staff.Business.Timezone,
		},
	})
}
