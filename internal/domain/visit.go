package domain

// Visit is one location scheduled on one day of a tour.
//
// StartTime and EndTime are same-day wall-clock strings; overnight spans are
// not supported. Travel metrics describe the leg from the preceding visit on
// the same day and are zero for the first visit of a day.
type Visit struct {
	LocationID         string
	DayOrder           int
	StartTime          string
	EndTime            string
	Notes              string
	TravelTimeFromPrev int
	DistanceFromPrev   float64
	EstimatedStartTime int
	EstimatedEndTime   int
}
