// Package wizard drives the multi-step tour builder: basic info, then
// schedules, then locations, then submission to the portal.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/itinerary"
	"tour-composer-service/internal/platform/obs"
	"tour-composer-service/internal/ports"
)

// Deps are the collaborators of a Controller. Routes and Locations may be
// nil, in which case travel metrics are never looked up.
type Deps struct {
	Routes    ports.RouteProvider
	Locations ports.LocationCatalog
	Gateway   ports.TourGateway
	Validator *Validator
	Now       func() time.Time
}

// Controller is one run of the builder wizard. The same controller serves
// the tour flow and the workshop flow; Capabilities decide whether the
// schedule step exists.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	caps      domain.Capabilities
	step      Step
	basic     domain.TourBasicInfo
	schedules []domain.TourSchedule
	store     *itinerary.Store
	tourID    string
	deps      Deps
}

func New(caps domain.Capabilities, deps Deps) (*Controller, error) {
	if deps.Gateway == nil {
		return nil, errors.New("new wizard: tour gateway is nil")
	}
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Controller{caps: caps, step: StepBasicInfo, deps: deps}, nil
}

func (c *Controller) Step() Step                        { return c.step }
func (c *Controller) Capabilities() domain.Capabilities { return c.caps }
func (c *Controller) BasicInfo() domain.TourBasicInfo   { return c.basic }
func (c *Controller) TourID() string                    { return c.tourID }

func (c *Controller) Schedules() []domain.TourSchedule {
	return slices.Clone(c.schedules)
}

// Steps lists the steps this flow walks through, DONE excluded.
func (c *Controller) Steps() []Step {
	if c.caps.HasScheduleStep() {
		return []Step{StepBasicInfo, StepSchedule, StepLocations}
	}
	return []Step{StepBasicInfo, StepLocations}
}

// Itinerary returns the visit store, or nil before LOCATIONS was first entered.
func (c *Controller) Itinerary() *itinerary.Store { return c.store }

// SetBasicInfo stores the step 1 draft. It is validated on Next.
func (c *Controller) SetBasicInfo(info domain.TourBasicInfo) error {
	if c.step != StepBasicInfo {
		return fmt.Errorf("set basic info at %s: %w", c.step, ErrWrongStep)
	}
	c.basic = info
	return nil
}

// SetSchedules stores the step 2 draft. It is validated on Next.
func (c *Controller) SetSchedules(schedules []domain.TourSchedule) error {
	if c.step != StepSchedule {
		return fmt.Errorf("set schedules at %s: %w", c.step, ErrWrongStep)
	}
	c.schedules = slices.Clone(schedules)
	return nil
}

// Next validates the current step and moves forward. On a validation error
// the step does not change.
func (c *Controller) Next() error {
	switch c.step {
	case StepBasicInfo:
		if err := c.deps.Validator.BasicInfo(c.basic); err != nil {
			return err
		}
		if c.caps.HasScheduleStep() {
			c.step = StepSchedule
			return nil
		}
		return c.enterLocations()

	case StepSchedule:
		if err := c.deps.Validator.Schedules(c.schedules, c.deps.Now()); err != nil {
			return err
		}
		return c.enterLocations()

	default:
		return fmt.Errorf("next from %s: %w", c.step, ErrWrongStep)
	}
}

// Back returns to the previous step without validating. Drafts are kept.
func (c *Controller) Back() error {
	switch c.step {
	case StepSchedule:
		c.step = StepBasicInfo
	case StepLocations:
		if c.caps.HasScheduleStep() {
			c.step = StepSchedule
		} else {
			c.step = StepBasicInfo
		}
	default:
		return fmt.Errorf("back from %s: %w", c.step, ErrWrongStep)
	}
	return nil
}

// enterLocations creates the itinerary on first entry and revalidates it
// against the current day count afterwards.
func (c *Controller) enterLocations() error {
	if c.store == nil {
		s, err := itinerary.NewStore(c.basic.Days, c.deps.Routes, c.deps.Locations)
		if err != nil {
			return err
		}
		c.store = s
	} else if err := c.store.SetTotalDays(c.basic.Days); err != nil {
		return err
	}

	c.step = StepLocations
	return nil
}

func (c *Controller) AddVisit(ctx context.Context, v domain.Visit) error {
	if c.step != StepLocations {
		return fmt.Errorf("add visit at %s: %w", c.step, ErrWrongStep)
	}
	return c.store.Add(ctx, v)
}

func (c *Controller) EditVisit(index int, v domain.Visit) error {
	if c.step != StepLocations {
		return fmt.Errorf("edit visit at %s: %w", c.step, ErrWrongStep)
	}
	return c.store.Edit(index, v)
}

func (c *Controller) RemoveVisit(index int) error {
	if c.step != StepLocations {
		return fmt.Errorf("remove visit at %s: %w", c.step, ErrWrongStep)
	}
	return c.store.Remove(index)
}

// Submit creates the tour remotely: basic info, then schedules (when the
// flow has a schedule step), then the visits in bulk. Each call is made
// once. A failure stops the sequence and is reported as *PartialFailure;
// nothing already created is undone.
func (c *Controller) Submit(ctx context.Context) (_ string, err error) {
	defer obs.Time(ctx, "wizard.Submit")(&err)

	if c.step != StepLocations {
		return "", fmt.Errorf("submit at %s: %w", c.step, ErrWrongStep)
	}
	if c.store.Len() == 0 {
		return "", domain.NewValidationError(nil, domain.FieldError{
			Field:   "locations",
			Message: "need at least one location",
		})
	}

	pf := &PartialFailure{}

	tourID, err := c.deps.Gateway.CreateBasicInfo(ctx, c.basic)
	if err != nil {
		pf.Failed, pf.Err = StageBasicInfo, err
		return "", pf
	}
	pf.TourID = tourID
	pf.Completed = append(pf.Completed, StageBasicInfo)

	if c.caps.HasScheduleStep() {
		if err := c.deps.Gateway.CreateSchedules(ctx, tourID, slices.Clone(c.schedules)); err != nil {
			pf.Failed, pf.Err = StageSchedules, err
			return tourID, pf
		}
		pf.Completed = append(pf.Completed, StageSchedules)
	}

	if err := c.deps.Gateway.CreateLocations(ctx, tourID, c.store.Flatten()); err != nil {
		pf.Failed, pf.Err = StageLocations, err
		return tourID, pf
	}

	c.tourID = tourID
	c.step = StepDone
	return tourID, nil
}
