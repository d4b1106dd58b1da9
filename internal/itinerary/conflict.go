package itinerary

import (
	"fmt"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/wallclock"
)

// Interval is a half-open [Start, End) span in seconds since midnight.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether the two half-open intervals share any instant.
// Touching intervals (a.End == b.Start) do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// IntervalOf returns the visit's time window.
func IntervalOf(v domain.Visit) (Interval, error) {
	s, err := wallclock.ToSeconds(v.StartTime)
	if err != nil {
		return Interval{}, err
	}
	e, err := wallclock.ToSeconds(v.EndTime)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

// ConflictError names the visit a candidate overlaps with.
type ConflictError struct {
	Day   int
	Index int
	With  domain.Visit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"time conflict on day %d with visit #%d (%s-%s)",
		e.Day, e.Index, e.With.StartTime, e.With.EndTime,
	)
}

// HasConflict reports whether candidate overlaps any of the visits of one day.
// The visit at position exclude (the one being edited) is skipped; pass -1 to
// check against all of them.
func HasConflict(dayVisits []domain.Visit, candidate Interval, exclude int) bool {
	for i, v := range dayVisits {
		if i == exclude {
			continue
		}
		iv, err := IntervalOf(v)
		if err != nil {
			continue
		}
		if iv.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// FindConflict scans all visits, restricted to day, and returns the index of
// the first overlap with candidate or -1.
func FindConflict(visits []domain.Visit, day int, candidate Interval, exclude int) int {
	for i, v := range visits {
		if i == exclude || v.DayOrder != day {
			continue
		}
		iv, err := IntervalOf(v)
		if err != nil {
			continue
		}
		if iv.Overlaps(candidate) {
			return i
		}
	}
	return -1
}
