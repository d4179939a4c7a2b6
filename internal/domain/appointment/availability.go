package appointment

import "time"

type AvailabilityInput struct {
	BusinessID uint
	ServiceID  uint
	StaffID    *uint

	// Date is any instant within the requested calendar day; the day
	// boundaries are computed in the business timezone.
	Date time.Time

	// Timezone is the caller's display zone; it never affects which slots
	// exist, only how they are rendered.
	Timezone string
}

// AvailableSlot is one bookable start instant, exactly one service duration
// long, with every staff member free at that instant. Produced fresh per
// request, never cached.
type AvailableSlot struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	StaffIDs []uint    `json:"staff_ids"`
}
