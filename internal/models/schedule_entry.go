package models

import "time"

// ScheduleEntry is one recurring weekly working-hours block. Start and end
// are wall-clock "HH:mm" strings with no date or zone attached; they are
// interpreted against the business timezone at evaluation time. An entry may
// not cross midnight. A staff member may hold several entries for the same
// weekday (split shifts).
type ScheduleEntry struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index:idx_schedule_staff_weekday" json:"staff_id"`

	Weekday int `gorm:"index:idx_schedule_staff_weekday" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
