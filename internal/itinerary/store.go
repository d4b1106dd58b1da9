package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"strings"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/platform/obs"
	"tour-composer-service/internal/ports"
	"tour-composer-service/internal/wallclock"
)

var ErrIndexOutOfRange = errors.New("visit index out of range")

// Store is the in-memory itinerary of one tour being composed.
//
// Visits are kept in insertion order; per-day views sort by start time.
// Editing or removing a visit never recomputes the travel metrics of its
// neighbors, those stay as entered until the visit itself is edited.
//
// A Store is not safe for concurrent use. Callers serialize access (one
// wizard session at a time).
type Store struct {
	totalDays int
	visits    []domain.Visit
	routes    ports.RouteProvider
	locations ports.LocationCatalog
}

// NewStore returns an empty itinerary for a tour lasting totalDays.
// routes and locations may be nil, in which case travel metrics are never
// looked up.
func NewStore(totalDays int, routes ports.RouteProvider, locations ports.LocationCatalog) (*Store, error) {
	if totalDays < 1 {
		return nil, fmt.Errorf("new itinerary: totalDays must be >= 1, got %d", totalDays)
	}

	return &Store{
		totalDays: totalDays,
		visits:    []domain.Visit{},
		routes:    routes,
		locations: locations,
	}, nil
}

func (s *Store) TotalDays() int { return s.totalDays }

func (s *Store) Len() int { return len(s.visits) }

// Visits returns a copy of all visits in insertion order.
func (s *Store) Visits() []domain.Visit {
	return slices.Clone(s.visits)
}

// Add validates v, rejects it on a time conflict and appends it.
//
// Unless v becomes the first visit of its day, missing travel metrics are
// looked up from the preceding visit (by start time). Non-zero values supplied
// by the caller are kept. A failed lookup leaves the metrics at zero and does
// not fail the add. If ctx is cancelled while the lookup is in flight the
// store is left untouched and ctx.Err() is returned.
func (s *Store) Add(ctx context.Context, v domain.Visit) (err error) {
	defer obs.Time(ctx, "itinerary.Add")(&err)

	nv, err := s.validate(v, -1)
	if err != nil {
		return err
	}

	prev, ok := s.predecessor(nv, -1)
	if !ok {
		nv.TravelTimeFromPrev = 0
		nv.DistanceFromPrev = 0
	} else if nv.TravelTimeFromPrev == 0 || nv.DistanceFromPrev == 0 {
		if r, ok := s.lookup(ctx, prev.LocationID, nv.LocationID); ok {
			if nv.TravelTimeFromPrev == 0 {
				nv.TravelTimeFromPrev = r.DurationMin
			}
			if nv.DistanceFromPrev == 0 {
				nv.DistanceFromPrev = float64(r.DistanceKm)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("add visit: %w", err)
	}

	s.visits = append(s.visits, nv)
	return nil
}

// Edit replaces the visit at index after the same validation as Add, with
// the visit's own slot excluded from the conflict check. Travel metrics are
// taken as given; neither this visit nor its neighbors are re-routed.
func (s *Store) Edit(index int, v domain.Visit) error {
	if index < 0 || index >= len(s.visits) {
		return fmt.Errorf("edit visit %d: %w", index, ErrIndexOutOfRange)
	}

	nv, err := s.validate(v, index)
	if err != nil {
		return err
	}

	if _, ok := s.predecessor(nv, index); !ok {
		nv.TravelTimeFromPrev = 0
		nv.DistanceFromPrev = 0
	}

	s.visits[index] = nv
	return nil
}

// Remove deletes the visit at index. Remaining visits keep their metrics.
func (s *Store) Remove(index int) error {
	if index < 0 || index >= len(s.visits) {
		return fmt.Errorf("remove visit %d: %w", index, ErrIndexOutOfRange)
	}

	s.visits = slices.Delete(s.visits, index, index+1)
	return nil
}

// SetTotalDays revalidates the itinerary against a changed tour duration.
// It fails, leaving the store unchanged, when a visit would fall outside the
// new range.
func (s *Store) SetTotalDays(n int) error {
	if n < 1 {
		return domain.NewValidationError(nil, domain.FieldError{Field: "days", Message: "must be at least 1"})
	}

	verr := domain.NewValidationError(nil)
	for i, v := range s.visits {
		if v.DayOrder > n {
			verr.Add("dayOrder", fmt.Sprintf("visit #%d is on day %d, beyond the tour's %d days", i, v.DayOrder, n))
		}
	}
	if !verr.Empty() {
		return verr
	}

	s.totalDays = n
	return nil
}

// Entry is a visit together with its storage index.
type Entry struct {
	Index int
	Visit domain.Visit
}

// VisitsForDay returns the visits of day sorted by start time ascending.
func (s *Store) VisitsForDay(day int) []Entry {
	out := make([]Entry, 0)
	for i, v := range s.visits {
		if v.DayOrder == day {
			out = append(out, Entry{Index: i, Visit: v})
		}
	}

	slices.SortStableFunc(out, func(a, b Entry) int {
		return a.Visit.EstimatedStartTime - b.Visit.EstimatedStartTime
	})
	return out
}

// Flatten returns the visits ordered by day, then start time, for submission.
func (s *Store) Flatten() []domain.Visit {
	out := slices.Clone(s.visits)
	slices.SortStableFunc(out, func(a, b domain.Visit) int {
		if a.DayOrder != b.DayOrder {
			return a.DayOrder - b.DayOrder
		}
		return a.EstimatedStartTime - b.EstimatedStartTime
	})
	return out
}

// validate checks the visit's fields and its conflicts with the other visits
// of its day, and returns it with normalized times.
func (s *Store) validate(v domain.Visit, exclude int) (domain.Visit, error) {
	verr := domain.NewValidationError(nil)

	v.LocationID = strings.TrimSpace(v.LocationID)
	if v.LocationID == "" {
		verr.Add("locationId", "location is required")
	}

	if v.DayOrder < 1 || v.DayOrder > s.totalDays {
		verr.Add("dayOrder", fmt.Sprintf("must be between 1 and %d", s.totalDays))
	}

	start, startErr := wallclock.NormalizeHMS(v.StartTime)
	if startErr != nil {
		verr.Add("startTime", "must be HH:MM or HH:MM:SS")
	}
	end, endErr := wallclock.NormalizeHMS(v.EndTime)
	if endErr != nil {
		verr.Add("endTime", "must be HH:MM or HH:MM:SS")
	}

	if startErr == nil && endErr == nil {
		v.StartTime, v.EndTime = start, end
		// Already normalized, conversion cannot fail.
		v.EstimatedStartTime, _ = wallclock.ToSeconds(start)
		v.EstimatedEndTime, _ = wallclock.ToSeconds(end)
		if v.EstimatedStartTime >= v.EstimatedEndTime {
			verr.Add("endTime", "end time must be after start time")
		}
	}

	if v.TravelTimeFromPrev < 0 {
		verr.Add("travelTimeFromPrev", "must not be negative")
	}
	if v.DistanceFromPrev < 0 || math.IsNaN(v.DistanceFromPrev) || math.IsInf(v.DistanceFromPrev, 0) {
		verr.Add("distanceFromPrev", "must not be negative")
	}

	if !verr.Empty() {
		return domain.Visit{}, verr
	}

	candidate := Interval{Start: v.EstimatedStartTime, End: v.EstimatedEndTime}
	if i := FindConflict(s.visits, v.DayOrder, candidate, exclude); i >= 0 {
		cerr := &ConflictError{Day: v.DayOrder, Index: i, With: s.visits[i]}
		return domain.Visit{}, domain.NewValidationError(cerr, domain.FieldError{Field: "startTime", Message: cerr.Error()})
	}

	return v, nil
}

// predecessor returns the visit on the same day with the latest start time
// before v's, ignoring the slot at exclude.
func (s *Store) predecessor(v domain.Visit, exclude int) (domain.Visit, bool) {
	var best domain.Visit
	found := false
	for i, o := range s.visits {
		if i == exclude || o.DayOrder != v.DayOrder || o.EstimatedStartTime >= v.EstimatedStartTime {
			continue
		}
		if !found || o.EstimatedStartTime > best.EstimatedStartTime {
			best = o
			found = true
		}
	}
	return best, found
}

func (s *Store) lookup(ctx context.Context, fromID, toID string) (ports.RouteResult, bool) {
	if s.routes == nil || s.locations == nil {
		return ports.RouteResult{}, false
	}

	from, err := s.locations.GetLocation(ctx, fromID)
	if err != nil {
		log.Printf("route lookup skipped: from=%s to=%s err=%v", fromID, toID, err)
		return ports.RouteResult{}, false
	}
	to, err := s.locations.GetLocation(ctx, toID)
	if err != nil {
		log.Printf("route lookup skipped: from=%s to=%s err=%v", fromID, toID, err)
		return ports.RouteResult{}, false
	}

	r, err := s.routes.Route(ctx, from.Coordinates(), to.Coordinates())
	if err != nil {
		log.Printf("route lookup failed: from=%s to=%s err=%v", fromID, toID, err)
		return ports.RouteResult{}, false
	}
	if r.DistanceKm < 0 || r.DurationMin < 0 {
		log.Printf("route lookup discarded: from=%s to=%s negative metrics", fromID, toID)
		return ports.RouteResult{}, false
	}

	return r, true
}
