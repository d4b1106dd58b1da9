package dto

type CreateWizardRequest struct {
	Flow               string `json:"flow"`
	WorkshopsAvailable bool   `json:"workshops_available"`
}

type CapabilitiesResponse struct {
	HasExperienceTicket  bool `json:"has_experience_ticket"`
	HasActivities        bool `json:"has_activities"`
	HasRecurringSchedule bool `json:"has_recurring_schedule"`
}

type BasicInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Days        int    `json:"days"`
	Nights      int    `json:"nights"`
	TourTypeID  string `json:"tour_type_id"`
}

// Schedule carries DepartureDate as a calendar date, YYYY-MM-DD.
type Schedule struct {
	DepartureDate  string  `json:"departure_date"`
	MaxParticipant int     `json:"max_participant"`
	AdultPrice     float64 `json:"adult_price"`
	ChildrenPrice  float64 `json:"children_price"`
}

type SchedulesRequest struct {
	Schedules []Schedule `json:"schedules"`
}

type WizardResponse struct {
	ID           string               `json:"id"`
	Step         string               `json:"step"`
	Steps        []string             `json:"steps"`
	Capabilities CapabilitiesResponse `json:"capabilities"`
	BasicInfo    BasicInfo            `json:"basic_info"`
	Schedules    []Schedule           `json:"schedules"`
	TotalDays    int                  `json:"total_days"`
	VisitCount   int                  `json:"visit_count"`
	TourID       string               `json:"tour_id,omitempty"`
}

type VisitRequest struct {
	LocationID         string  `json:"location_id"`
	DayOrder           int     `json:"day_order"`
	StartTime          string  `json:"start_time"`
	EndTime            string  `json:"end_time"`
	Notes              string  `json:"notes"`
	TravelTimeFromPrev int     `json:"travel_time_from_prev"`
	DistanceFromPrev   float64 `json:"distance_from_prev"`
}

type VisitResponse struct {
	Index              int     `json:"index"`
	LocationID         string  `json:"location_id"`
	DayOrder           int     `json:"day_order"`
	StartTime          string  `json:"start_time"`
	EndTime            string  `json:"end_time"`
	Notes              string  `json:"notes"`
	Duration           string  `json:"duration"`
	TravelTimeFromPrev int     `json:"travel_time_from_prev"`
	DistanceFromPrev   float64 `json:"distance_from_prev"`
}

type DayStatsResponse struct {
	Day                  int     `json:"day"`
	VisitCount           int     `json:"visit_count"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`
	TotalDuration        string  `json:"total_duration"`
	TotalDistanceKm      float64 `json:"total_distance_km"`
	TotalTravelMinutes   int     `json:"total_travel_minutes"`
	TotalTravel          string  `json:"total_travel"`
}

type DayResponse struct {
	Day    int              `json:"day"`
	Visits []VisitResponse  `json:"visits"`
	Stats  DayStatsResponse `json:"stats"`
}

type StatsResponse struct {
	TotalDays          int                `json:"total_days"`
	TotalVisits        int                `json:"total_visits"`
	TotalDistanceKm    float64            `json:"total_distance_km"`
	TotalTravelMinutes int                `json:"total_travel_minutes"`
	Days               []DayStatsResponse `json:"days"`
}

type SubmitResponse struct {
	TourID string `json:"tour_id"`
}

type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type PartialFailureResponse struct {
	Error     string   `json:"error"`
	TourID    string   `json:"tour_id,omitempty"`
	Completed []string `json:"completed"`
	Failed    string   `json:"failed"`
}
