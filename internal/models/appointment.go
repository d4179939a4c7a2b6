package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Reference uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"reference"`

	BusinessID uint     `json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"business"`

	StaffID uint        `gorm:"uniqueIndex:uniq_staff_slot_start,where:status <> 'cancelled'" json:"staff_id"`
	Staff   StaffMember `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"staff"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	// Absolute instants; timezone-independent. The unique index on
	// (staff_id, start_time) backs the conflict guard against write races.
	StartTime time.Time `gorm:"uniqueIndex:uniq_staff_slot_start,where:status <> 'cancelled'" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Timezone is the caller's display zone, retained for formatting only.
	Timezone string `gorm:"size:64" json:"timezone"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	// Opaque handles owned by external collaborators.
	CalendarEventID string `gorm:"size:255" json:"calendar_event_id"`
	MeetingID       string `gorm:"size:255" json:"meeting_id"`

	Notes       string     `gorm:"size:255" json:"notes"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
