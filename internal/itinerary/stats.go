package itinerary

// DayStats aggregates one day. TotalDurationMinutes sums each visit's own
// span, not the wall-clock span of the day.
type DayStats struct {
	Day                  int
	VisitCount           int
	TotalDurationMinutes int
	TotalDistanceKm      float64
	TotalTravelMinutes   int
}

type Stats struct {
	TotalDays          int
	TotalVisits        int
	TotalDistanceKm    float64
	TotalTravelMinutes int
}

func (s *Store) StatsForDay(day int) DayStats {
	st := DayStats{Day: day}
	for _, v := range s.visits {
		if v.DayOrder != day {
			continue
		}
		st.VisitCount++
		st.TotalDurationMinutes += (v.EstimatedEndTime - v.EstimatedStartTime) / 60
		st.TotalDistanceKm += v.DistanceFromPrev
		st.TotalTravelMinutes += v.TravelTimeFromPrev
	}
	return st
}

func (s *Store) AllStats() Stats {
	st := Stats{TotalDays: s.totalDays, TotalVisits: len(s.visits)}
	for _, v := range s.visits {
		st.TotalDistanceKm += v.DistanceFromPrev
		st.TotalTravelMinutes += v.TravelTimeFromPrev
	}
	return st
}
