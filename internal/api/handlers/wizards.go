package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"tour-composer-service/internal/api/dto"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/itinerary"
	"tour-composer-service/internal/session"
	"tour-composer-service/internal/wallclock"
	"tour-composer-service/internal/wizard"

	"github.com/julienschmidt/httprouter"
)

const dateLayout = "2006-01-02"

type WizardHandler struct {
	Sessions *session.Registry
}

// withWizard resolves the :id session and runs fn under its lock. Errors
// returned by fn are written as HTTP responses.
func (h *WizardHandler) withWizard(
	w http.ResponseWriter,
	r *http.Request,
	ps httprouter.Params,
	fn func(ctx context.Context, s *session.Session, wz *wizard.Controller) error,
) {
	s, err := h.Sessions.Get(ps.ByName("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	err = s.Do(r.Context(), func(ctx context.Context, wz *wizard.Controller) error {
		return fn(ctx, s, wz)
	})
	if err != nil {
		writeDomainError(w, r, err)
	}
}

// Create starts a wizard session for the requested flow.
func (h *WizardHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req dto.CreateWizardRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var caps domain.Capabilities
	switch strings.TrimSpace(req.Flow) {
	case "", "tour":
		caps = domain.TourFlow()
	case "workshop":
		caps = domain.WorkshopFlow(req.WorkshopsAvailable)
	default:
		writeError(w, r, http.StatusBadRequest, "flow must be tour or workshop")
		return
	}

	s, err := h.Sessions.Create(caps)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	_ = s.Do(r.Context(), func(_ context.Context, wz *wizard.Controller) error {
		writeJSON(w, r, http.StatusCreated, wizardResponse(s.ID, wz))
		return nil
	})
}

func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.withWizard(w, r, ps, func(_ context.Context, s *session.Session, wz *wizard.Controller) error {
		writeJSON(w, r, http.StatusOK, wizardResponse(s.ID, wz))
		return nil
	})
}

// Delete abandons the session. Its unsubmitted itinerary is lost.
func (h *WizardHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !h.Sessions.Delete(ps.ByName("id")) {
		writeError(w, r, http.StatusNotFound, "wizard not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *WizardHandler) SetBasicInfo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req dto.BasicInfo
	if !decodeJSON(w, r, &req) {
		return
	}

	h.withWizard(w, r, ps, func(_ context.Context, s *session.Session, wz *wizard.Controller) error {
		info := domain.TourBasicInfo{
			Name:        req.Name,
			Description: req.Description,
			Content:     req.Content,
			Days:        req.Days,
			Nights:      req.Nights,
			TourTypeID:  req.TourTypeID,
		}
		if err := wz.SetBasicInfo(info); err != nil {
			return err
		}
		writeJSON(w, r, http.StatusOK, wizardResponse(s.ID, wz))
		return nil
	})
}

func (h *WizardHandler) SetSchedules(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req dto.SchedulesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	schedules := make([]domain.TourSchedule, 0, len(req.Schedules))
	verr := domain.NewValidationError(nil)
	for i, sc := range req.Schedules {
		var dep time.Time
		if sc.DepartureDate != "" {
			d, err := time.Parse(dateLayout, sc.DepartureDate)
			if err != nil {
				verr.Add(fmt.Sprintf("schedules[%d].departure_date", i), "must be a date in YYYY-MM-DD format")
				continue
			}
			dep = d
		}
		schedules = append(schedules, domain.TourSchedule{
			DepartureDate:  dep,
			MaxParticipant: sc.MaxParticipant,
			AdultPrice:     sc.AdultPrice,
			ChildrenPrice:  sc.ChildrenPrice,
		})
	}
	if !verr.Empty() {
		writeDomainError(w, r, verr)
		return
	}

	h.withWizard(w, r, ps, func(_ context.Context, s *session.Session, wz *wizard.Controller) error {
		if err := wz.SetSchedules(schedules); err != nil {
			return err
		}
		writeJSON(w, r, http.StatusOK, wizardResponse(s.ID, wz))
		return nil
	})
}

func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.withWizard(w, r, ps, func(_ context.Context, s *session.Session, wz *wizard.Controller) error {
		if err := wz.Next(); err != nil {
			return err
		}
		writeJSON(w, r, http.StatusOK, wizardResponse(s.ID, wz))
		return nil
	})
}

func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.withWizard(w, r, ps, func(_ context.Context, s *session.Session, wz *wizard.Controller) error {
		if err := wz.Back(); err != nil {
			return err
		}
		writeJSON(w, r, http.StatusOK, wizardResponse(s.ID, wz))
		return nil
	})
}

// AddVisit appends a visit. Missing travel metrics are looked up from the
// preceding visit of the same day.
func (h *WizardHandler) AddVisit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req dto.VisitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.withWizard(w, r, ps, func(ctx context.Context, _ *session.Session, wz *wizard.Controller) error {
		if err := wz.AddVisit(ctx, visitFromRequest(req)); err != nil {
			return visitError(err)
		}
		return writeDay(w, r, wz, req.DayOrder, http.StatusCreated)
	})
}

func (h *WizardHandler) EditVisit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index, ok := parseIntParam(w, r, ps, "index")
	if !ok {
		return
	}
	var req dto.VisitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	h.withWizard(w, r, ps, func(_ context.Context, _ *session.Session, wz *wizard.Controller) error {
		if err := wz.EditVisit(index, visitFromRequest(req)); err != nil {
			return visitError(err)
		}
		return writeDay(w, r, wz, req.DayOrder, http.StatusOK)
	})
}

func (h *WizardHandler) RemoveVisit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index, ok := parseIntParam(w, r, ps, "index")
	if !ok {
		return
	}

	h.withWizard(w, r, ps, func(_ context.Context, _ *session.Session, wz *wizard.Controller) error {
		if err := wz.RemoveVisit(index); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// Day returns one day's visits ordered by start time, with day totals.
func (h *WizardHandler) Day(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	day, ok := parseIntParam(w, r, ps, "day")
	if !ok {
		return
	}

	h.withWizard(w, r, ps, func(_ context.Context, _ *session.Session, wz *wizard.Controller) error {
		return writeDay(w, r, wz, day, http.StatusOK)
	})
}

func (h *WizardHandler) Stats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.withWizard(w, r, ps, func(_ context.Context, _ *session.Session, wz *wizard.Controller) error {
		store := wz.Itinerary()
		if store == nil {
			return fmt.Errorf("stats before locations step: %w", wizard.ErrWrongStep)
		}

		all := store.AllStats()
		res := dto.StatsResponse{
			TotalDays:          all.TotalDays,
			TotalVisits:        all.TotalVisits,
			TotalDistanceKm:    all.TotalDistanceKm,
			TotalTravelMinutes: all.TotalTravelMinutes,
			Days:               make([]dto.DayStatsResponse, 0, all.TotalDays),
		}
		for d := 1; d <= all.TotalDays; d++ {
			res.Days = append(res.Days, dayStatsResponse(store.StatsForDay(d)))
		}

		writeJSON(w, r, http.StatusOK, res)
		return nil
	})
}

// Submit creates the tour on the portal. A failure midway answers 502 with
// the stages that already succeeded.
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.withWizard(w, r, ps, func(ctx context.Context, _ *session.Session, wz *wizard.Controller) error {
		tourID, err := wz.Submit(ctx)
		if err != nil {
			return err
		}
		writeJSON(w, r, http.StatusCreated, dto.SubmitResponse{TourID: tourID})
		return nil
	})
}

func parseIntParam(w http.ResponseWriter, r *http.Request, ps httprouter.Params, name string) (int, bool) {
	n, err := strconv.Atoi(ps.ByName(name))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return n, true
}

func visitFromRequest(req dto.VisitRequest) domain.Visit {
	return domain.Visit{
		LocationID:         req.LocationID,
		DayOrder:           req.DayOrder,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Notes:              req.Notes,
		TravelTimeFromPrev: req.TravelTimeFromPrev,
		DistanceFromPrev:   req.DistanceFromPrev,
	}
}

var visitFieldNames = map[string]string{
	"locationId":         "location_id",
	"dayOrder":           "day_order",
	"startTime":          "start_time",
	"endTime":            "end_time",
	"travelTimeFromPrev": "travel_time_from_prev",
	"distanceFromPrev":   "distance_from_prev",
}

// visitError renames the itinerary's field keys to the request's JSON names.
func visitError(err error) error {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return err
	}

	out := domain.NewValidationError(verr.Err)
	for _, f := range verr.Fields {
		name, ok := visitFieldNames[f.Field]
		if !ok {
			name = f.Field
		}
		out.Add(name, f.Message)
	}
	return out
}

func writeDay(w http.ResponseWriter, r *http.Request, wz *wizard.Controller, day, status int) error {
	store := wz.Itinerary()
	if store == nil {
		return fmt.Errorf("day view before locations step: %w", wizard.ErrWrongStep)
	}

	entries := store.VisitsForDay(day)
	res := dto.DayResponse{
		Day:    day,
		Visits: make([]dto.VisitResponse, 0, len(entries)),
		Stats:  dayStatsResponse(store.StatsForDay(day)),
	}
	for _, e := range entries {
		v := e.Visit
		res.Visits = append(res.Visits, dto.VisitResponse{
			Index:              e.Index,
			LocationID:         v.LocationID,
			DayOrder:           v.DayOrder,
			StartTime:          v.StartTime,
			EndTime:            v.EndTime,
			Notes:              v.Notes,
			Duration:           wallclock.Duration(v.StartTime, v.EndTime),
			TravelTimeFromPrev: v.TravelTimeFromPrev,
			DistanceFromPrev:   v.DistanceFromPrev,
		})
	}

	writeJSON(w, r, status, res)
	return nil
}

func dayStatsResponse(st itinerary.DayStats) dto.DayStatsResponse {
	return dto.DayStatsResponse{
		Day:                  st.Day,
		VisitCount:           st.VisitCount,
		TotalDurationMinutes: st.TotalDurationMinutes,
		TotalDuration:        wallclock.FormatMinutes(st.TotalDurationMinutes),
		TotalDistanceKm:      st.TotalDistanceKm,
		TotalTravelMinutes:   st.TotalTravelMinutes,
		TotalTravel:          wallclock.FormatMinutes(st.TotalTravelMinutes),
	}
}

func wizardResponse(id string, wz *wizard.Controller) dto.WizardResponse {
	caps := wz.Capabilities()
	info := wz.BasicInfo()

	res := dto.WizardResponse{
		ID:   id,
		Step: wz.Step().String(),
		Capabilities: dto.CapabilitiesResponse{
			HasExperienceTicket:  caps.HasExperienceTicket,
			HasActivities:        caps.HasActivities,
			HasRecurringSchedule: caps.HasRecurringSchedule,
		},
		BasicInfo: dto.BasicInfo{
			Name:        info.Name,
			Description: info.Description,
			Content:     info.Content,
			Days:        info.Days,
			Nights:      info.Nights,
			TourTypeID:  info.TourTypeID,
		},
		Schedules: []dto.Schedule{},
		TourID:    wz.TourID(),
	}

	for _, st := range wz.Steps() {
		res.Steps = append(res.Steps, st.String())
	}
	for _, sc := range wz.Schedules() {
		dep := ""
		if !sc.DepartureDate.IsZero() {
			dep = sc.DepartureDate.Format(dateLayout)
		}
		res.Schedules = append(res.Schedules, dto.Schedule{
			DepartureDate:  dep,
			MaxParticipant: sc.MaxParticipant,
			AdultPrice:     sc.AdultPrice,
			ChildrenPrice:  sc.ChildrenPrice,
		})
	}
	if store := wz.Itinerary(); store != nil {
		res.TotalDays = store.TotalDays()
		res.VisitCount = store.Len()
	}

	return res
}
