package wizard

import (
	"context"
	"errors"
	"testing"
	"time"
	"tour-composer-service/internal/domain"
)

type fakeGateway struct {
	calls     []string
	failAt    string
	schedules []domain.TourSchedule
	visits    []domain.Visit
}

func (g *fakeGateway) CreateBasicInfo(_ context.Context, _ domain.TourBasicInfo) (string, error) {
	g.calls = append(g.calls, StageBasicInfo)
	if g.failAt == StageBasicInfo {
		return "", errors.New("portal down")
	}
	return "tour-1", nil
}

func (g *fakeGateway) CreateSchedules(_ context.Context, _ string, s []domain.TourSchedule) error {
	g.calls = append(g.calls, StageSchedules)
	g.schedules = s
	if g.failAt == StageSchedules {
		return errors.New("portal down")
	}
	return nil
}

func (g *fakeGateway) CreateLocations(_ context.Context, _ string, v []domain.Visit) error {
	g.calls = append(g.calls, StageLocations)
	g.visits = v
	if g.failAt == StageLocations {
		return errors.New("portal down")
	}
	return nil
}

var fixedNow = time.Date(2026, 10, 17, 15, 0, 0, 0, time.UTC)

func validBasic(days int) domain.TourBasicInfo {
	return domain.TourBasicInfo{Name: "Hà Nội cổ", Description: "Phố cổ", Content: "Chi tiết", Days: days}
}

func validSchedule() domain.TourSchedule {
	return domain.TourSchedule{
		DepartureDate:  time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		MaxParticipant: 20,
		AdultPrice:     500000,
	}
}

func newController(t *testing.T, caps domain.Capabilities, gw *fakeGateway) *Controller {
	t.Helper()

	c, err := New(caps, Deps{Gateway: gw, Now: func() time.Time { return fixedNow }})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return c
}

func toLocations(t *testing.T, c *Controller, days int) {
	t.Helper()

	if err := c.SetBasicInfo(validBasic(days)); err != nil {
		t.Fatalf("set basic info: %v", err)
	}
	if err := c.Next(); err != nil {
		t.Fatalf("next from basic info: %v", err)
	}
	if c.Step() == StepSchedule {
		if err := c.SetSchedules([]domain.TourSchedule{validSchedule()}); err != nil {
			t.Fatalf("set schedules: %v", err)
		}
		if err := c.Next(); err != nil {
			t.Fatalf("next from schedule: %v", err)
		}
	}
	if c.Step() != StepLocations {
		t.Fatalf("step = %s, want LOCATIONS", c.Step())
	}
}

func TestWorkshopFlowWithoutWorkshopsSkipsSchedule(t *testing.T) {
	c := newController(t, domain.WorkshopFlow(false), &fakeGateway{})

	if got := c.Steps(); len(got) != 2 {
		t.Fatalf("steps = %v, want two steps", got)
	}

	if err := c.SetBasicInfo(validBasic(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Step() != StepLocations {
		t.Fatalf("forward from step 1 = %s, want LOCATIONS", c.Step())
	}

	if err := c.Back(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Step() != StepBasicInfo {
		t.Fatalf("back from step 3 = %s, want BASIC_INFO", c.Step())
	}
}

func TestWorkshopFlowWithWorkshopsHasSchedule(t *testing.T) {
	c := newController(t, domain.WorkshopFlow(true), &fakeGateway{})
	_ = c.SetBasicInfo(validBasic(1))
	if err := c.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Step() != StepSchedule {
		t.Fatalf("step = %s, want SCHEDULE", c.Step())
	}
}

func TestTourFlowStepsForwardAndBack(t *testing.T) {
	c := newController(t, domain.TourFlow(), &fakeGateway{})
	toLocations(t, c, 2)

	if err := c.Back(); err != nil || c.Step() != StepSchedule {
		t.Fatalf("back = %v, step = %s", err, c.Step())
	}
	if err := c.Back(); err != nil || c.Step() != StepBasicInfo {
		t.Fatalf("back = %v, step = %s", err, c.Step())
	}
	if err := c.Back(); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("err = %v, want ErrWrongStep", err)
	}
}

func TestBasicInfoValidation(t *testing.T) {
	c := newController(t, domain.TourFlow(), &fakeGateway{})
	_ = c.SetBasicInfo(domain.TourBasicInfo{Name: "  ", Days: 0})

	err := c.Next()

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	fields := verr.FieldMap()
	for _, f := range []string{"name", "description", "content", "days"} {
		if _, ok := fields[f]; !ok {
			t.Fatalf("missing field error for %s in %v", f, fields)
		}
	}
	if c.Step() != StepBasicInfo {
		t.Fatalf("step changed on invalid input")
	}
}

func TestScheduleValidation(t *testing.T) {
	c := newController(t, domain.TourFlow(), &fakeGateway{})
	_ = c.SetBasicInfo(validBasic(1))
	_ = c.Next()

	if err := c.Next(); err == nil {
		t.Fatalf("expected error for no schedules")
	}

	past := validSchedule()
	past.DepartureDate = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	bad := domain.TourSchedule{DepartureDate: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), MaxParticipant: 101, AdultPrice: 0, ChildrenPrice: -1}
	_ = c.SetSchedules([]domain.TourSchedule{past, bad})

	err := c.Next()

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	fields := verr.FieldMap()
	for _, f := range []string{
		"schedules[0].departure_date",
		"schedules[1].max_participant",
		"schedules[1].adult_price",
		"schedules[1].children_price",
	} {
		if _, ok := fields[f]; !ok {
			t.Fatalf("missing field error for %s in %v", f, fields)
		}
	}
	if _, ok := fields["schedules[1].departure_date"]; ok {
		t.Fatalf("departure today must be accepted")
	}
	if c.Step() != StepSchedule {
		t.Fatalf("step changed on invalid input")
	}
}

func TestWrongStepOperations(t *testing.T) {
	c := newController(t, domain.TourFlow(), &fakeGateway{})

	if err := c.SetSchedules(nil); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("err = %v", err)
	}
	if err := c.AddVisit(context.Background(), domain.Visit{}); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("err = %v", err)
	}
	if _, err := c.Submit(context.Background()); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("err = %v", err)
	}
}

func TestSubmitWithoutVisitsIsBlocked(t *testing.T) {
	gw := &fakeGateway{}
	c := newController(t, domain.TourFlow(), gw)
	toLocations(t, c, 1)

	_, err := c.Submit(context.Background())

	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.FieldMap()["locations"] != "need at least one location" {
		t.Fatalf("err = %v, want locations field error", err)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("gateway calls = %v, want none", gw.calls)
	}
}

func TestSubmitRunsStagesInOrder(t *testing.T) {
	gw := &fakeGateway{}
	c := newController(t, domain.TourFlow(), gw)
	toLocations(t, c, 2)

	ctx := context.Background()
	_ = c.AddVisit(ctx, domain.Visit{LocationID: "b", DayOrder: 2, StartTime: "09:00", EndTime: "10:00"})
	_ = c.AddVisit(ctx, domain.Visit{LocationID: "a", DayOrder: 1, StartTime: "09:00", EndTime: "10:00"})

	id, err := c.Submit(ctx)
	if err != nil || id != "tour-1" {
		t.Fatalf("submit = %q, %v", id, err)
	}

	want := []string{StageBasicInfo, StageSchedules, StageLocations}
	if len(gw.calls) != 3 || gw.calls[0] != want[0] || gw.calls[1] != want[1] || gw.calls[2] != want[2] {
		t.Fatalf("calls = %v, want %v", gw.calls, want)
	}
	if gw.visits[0].LocationID != "a" || gw.visits[1].LocationID != "b" {
		t.Fatalf("visits not submitted in day order: %+v", gw.visits)
	}
	if c.Step() != StepDone || c.TourID() != "tour-1" {
		t.Fatalf("step = %s, tour = %q", c.Step(), c.TourID())
	}
}

func TestSubmitWithoutScheduleStepSkipsSchedules(t *testing.T) {
	gw := &fakeGateway{}
	c := newController(t, domain.WorkshopFlow(false), gw)
	toLocations(t, c, 1)
	_ = c.AddVisit(context.Background(), domain.Visit{LocationID: "a", DayOrder: 1, StartTime: "09:00", EndTime: "10:00"})

	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gw.calls) != 2 || gw.calls[1] != StageLocations {
		t.Fatalf("calls = %v", gw.calls)
	}
}

func TestSubmitPartialFailure(t *testing.T) {
	tests := []struct {
		failAt    string
		tourID    string
		completed int
	}{
		{StageBasicInfo, "", 0},
		{StageSchedules, "tour-1", 1},
		{StageLocations, "tour-1", 2},
	}

	for _, tt := range tests {
		gw := &fakeGateway{failAt: tt.failAt}
		c := newController(t, domain.TourFlow(), gw)
		toLocations(t, c, 1)
		_ = c.AddVisit(context.Background(), domain.Visit{LocationID: "a", DayOrder: 1, StartTime: "09:00", EndTime: "10:00"})

		_, err := c.Submit(context.Background())

		var pf *PartialFailure
		if !errors.As(err, &pf) {
			t.Fatalf("%s: err = %v, want PartialFailure", tt.failAt, err)
		}
		if pf.Failed != tt.failAt || pf.TourID != tt.tourID || len(pf.Completed) != tt.completed {
			t.Fatalf("%s: got %+v", tt.failAt, pf)
		}
		if len(gw.calls) != tt.completed+1 {
			t.Fatalf("%s: calls = %v, each stage must run at most once", tt.failAt, gw.calls)
		}
		if c.Step() != StepLocations {
			t.Fatalf("%s: step = %s, want LOCATIONS", tt.failAt, c.Step())
		}
	}
}

func TestReenteringLocationsRevalidatesDays(t *testing.T) {
	c := newController(t, domain.WorkshopFlow(false), &fakeGateway{})
	toLocations(t, c, 3)

	if err := c.AddVisit(context.Background(), domain.Visit{LocationID: "a", DayOrder: 3, StartTime: "09:00", EndTime: "10:00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_ = c.Back()
	_ = c.SetBasicInfo(validBasic(2))
	if err := c.Next(); err == nil {
		t.Fatalf("expected rejection with a visit on day 3")
	}
	if c.Step() != StepBasicInfo {
		t.Fatalf("step = %s, want BASIC_INFO", c.Step())
	}

	_ = c.SetBasicInfo(validBasic(4))
	if err := c.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Itinerary().Len() != 1 || c.Itinerary().TotalDays() != 4 {
		t.Fatalf("itinerary not kept across steps")
	}
}
