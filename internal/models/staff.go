package models

import "time"

type StaffMember struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	BusinessID uint     `json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"business"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'owner'" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`

	// CalendarRef identifies this member's calendar at the external
	// free-busy source. Empty means no connected calendar.
	CalendarRef string `gorm:"size:255" json:"calendar_ref"`

	Services        []Service       `gorm:"many2many:staff_services;" json:"services"`
	ScheduleEntries []ScheduleEntry `gorm:"foreignKey:StaffID" json:"schedule_entries"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
