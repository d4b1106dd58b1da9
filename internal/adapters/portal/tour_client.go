package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/platform/obs"
)

type createTourRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Days        int    `json:"days"`
	Nights      int    `json:"nights"`
	TourTypeID  string `json:"tourTypeId,omitempty"`
}

type createTourResponse struct {
	ID string `json:"id"`
}

type scheduleDTO struct {
	DepartureDate  string  `json:"departureDate"`
	MaxParticipant int     `json:"maxParticipant"`
	AdultPrice     float64 `json:"adultPrice"`
	ChildrenPrice  float64 `json:"childrenPrice"`
}

type visitDTO struct {
	LocationID         string  `json:"locationId"`
	DayOrder           int     `json:"dayOrder"`
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime"`
	Notes              string  `json:"notes"`
	TravelTimeFromPrev int     `json:"travelTimeFromPrev"`
	DistanceFromPrev   float64 `json:"distanceFromPrev"`
	EstimatedStartTime int     `json:"estimatedStartTime"`
	EstimatedEndTime   int     `json:"estimatedEndTime"`
}

// TourClient implements TourGateway over the portal REST API.
type TourClient struct {
	c *Client
}

func NewTourClient(c *Client) *TourClient {
	return &TourClient{c: c}
}

func (t *TourClient) CreateBasicInfo(ctx context.Context, info domain.TourBasicInfo) (_ string, err error) {
	defer obs.Time(ctx, "portal.CreateBasicInfo")(&err)

	req := createTourRequest{
		Name:        info.Name,
		Description: info.Description,
		Content:     info.Content,
		Days:        info.Days,
		Nights:      info.Nights,
		TourTypeID:  info.TourTypeID,
	}

	var resp createTourResponse
	if err := t.c.doJSON(ctx, http.MethodPost, "/api/tours", req, &resp); err != nil {
		return "", fmt.Errorf("create tour: %w", err)
	}
	if resp.ID == "" {
		return "", errors.New("create tour: response has no id")
	}

	return resp.ID, nil
}

func (t *TourClient) CreateSchedules(ctx context.Context, tourID string, schedules []domain.TourSchedule) (err error) {
	defer obs.Time(ctx, "portal.CreateSchedules")(&err)

	body := make([]scheduleDTO, 0, len(schedules))
	for _, s := range schedules {
		body = append(body, scheduleDTO{
			DepartureDate:  s.DepartureDate.Format("2006-01-02"),
			MaxParticipant: s.MaxParticipant,
			AdultPrice:     s.AdultPrice,
			ChildrenPrice:  s.ChildrenPrice,
		})
	}

	path := "/api/tours/" + url.PathEscape(tourID) + "/schedules"
	if err := t.c.doJSON(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("create schedules for tour %s: %w", tourID, err)
	}
	return nil
}

func (t *TourClient) CreateLocations(ctx context.Context, tourID string, visits []domain.Visit) (err error) {
	defer obs.Time(ctx, "portal.CreateLocations")(&err)

	body := make([]visitDTO, 0, len(visits))
	for _, v := range visits {
		body = append(body, visitDTO(v))
	}

	path := "/api/tours/" + url.PathEscape(tourID) + "/locations/bulk"
	if err := t.c.doJSON(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("create locations for tour %s: %w", tourID, err)
	}
	return nil
}
