package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/platform/obs"
	"tour-composer-service/internal/ports"
)

type locationDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Category  string   `json:"category"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	OpenTime  string   `json:"openTime"`
	CloseTime string   `json:"closeTime"`
	Medias    []string `json:"medias"`
}

func (d locationDTO) toDomain() domain.Location {
	medias := d.Medias
	if medias == nil {
		medias = []string{}
	}
	return domain.Location{
		ID:        d.ID,
		Name:      d.Name,
		Address:   d.Address,
		Category:  d.Category,
		Latitude:  d.Latitude,
		Longitude: d.Longitude,
		OpenTime:  d.OpenTime,
		CloseTime: d.CloseTime,
		Medias:    medias,
	}
}

// LocationClient implements LocationCatalog over the portal REST API.
type LocationClient struct {
	c *Client
}

func NewLocationClient(c *Client) *LocationClient {
	return &LocationClient{c: c}
}

func (l *LocationClient) ListLocations(ctx context.Context) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "portal.ListLocations")(&err)

	var body []locationDTO
	if err := l.c.doJSON(ctx, http.MethodGet, "/api/locations", nil, &body); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	out := make([]domain.Location, 0, len(body))
	for _, d := range body {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (l *LocationClient) GetLocation(ctx context.Context, id string) (_ domain.Location, err error) {
	defer obs.Time(ctx, "portal.GetLocation")(&err)

	var body locationDTO
	err = l.c.doJSON(ctx, http.MethodGet, "/api/locations/"+url.PathEscape(id), nil, &body)

	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return domain.Location{}, fmt.Errorf("get location %s: %w", id, ports.ErrLocationNotFound)
	}
	if err != nil {
		return domain.Location{}, fmt.Errorf("get location %s: %w", id, err)
	}

	return body.toDomain(), nil
}
