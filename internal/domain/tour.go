package domain

import "time"

// TourBasicInfo is the first wizard step. Days drives the itinerary's day range.
type TourBasicInfo struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Content     string `json:"content" validate:"notblank"`
	Days        int    `json:"days" validate:"min=1"`
	Nights      int    `json:"nights" validate:"min=0"`
	TourTypeID  string `json:"tour_type_id"`
}

// TourSchedule is one departure of a tour with its capacity and prices.
type TourSchedule struct {
	DepartureDate  time.Time `json:"departure_date" validate:"required"`
	MaxParticipant int       `json:"max_participant" validate:"min=1,max=100"`
	AdultPrice     float64   `json:"adult_price" validate:"gt=0"`
	ChildrenPrice  float64   `json:"children_price" validate:"gte=0"`
}

// Capabilities describes which optional parts a builder flow carries.
type Capabilities struct {
	HasExperienceTicket  bool
	HasActivities        bool
	HasRecurringSchedule bool
}

// HasScheduleStep reports whether the flow collects schedules in step 2.
func (c Capabilities) HasScheduleStep() bool {
	return c.HasActivities || c.HasRecurringSchedule
}

// TourFlow is the tour-creation wizard.
func TourFlow() Capabilities {
	return Capabilities{HasRecurringSchedule: true}
}

// WorkshopFlow is the craft-village registration wizard. Without workshops
// there is no activity step.
func WorkshopFlow(workshopsAvailable bool) Capabilities {
	return Capabilities{
		HasExperienceTicket: workshopsAvailable,
		HasActivities:       workshopsAvailable,
	}
}
