package portal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/ports"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "secret", srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestListLocations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/locations" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("authorization = %q", got)
		}
		_, _ = w.Write([]byte(`[{"id":"l1","name":"Văn Miếu","latitude":21.0277,"longitude":105.8355,"openTime":"08:00"}]`))
	})

	ls, err := NewLocationClient(c).ListLocations(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ls) != 1 || ls[0].ID != "l1" || ls[0].OpenTime != "08:00" || ls[0].Medias == nil {
		t.Fatalf("got %+v", ls)
	}
}

func TestGetLocationNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := NewLocationClient(c).GetLocation(context.Background(), "missing")
	if !errors.Is(err, ports.ErrLocationNotFound) {
		t.Fatalf("err = %v, want ErrLocationNotFound", err)
	}
}

func TestCreateTourFlow(t *testing.T) {
	var schedules []scheduleDTO
	var visits []visitDTO

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		switch r.URL.Path {
		case "/api/tours":
			var req createTourRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name != "Hà Nội 3N2Đ" {
				t.Errorf("body = %+v err=%v", req, err)
			}
			_, _ = w.Write([]byte(`{"id":"t-42"}`))
		case "/api/tours/t-42/schedules":
			_ = json.NewDecoder(r.Body).Decode(&schedules)
			w.WriteHeader(http.StatusCreated)
		case "/api/tours/t-42/locations/bulk":
			_ = json.NewDecoder(r.Body).Decode(&visits)
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	tc := NewTourClient(c)
	ctx := context.Background()

	id, err := tc.CreateBasicInfo(ctx, domain.TourBasicInfo{Name: "Hà Nội 3N2Đ", Days: 3})
	if err != nil || id != "t-42" {
		t.Fatalf("id=%q err=%v", id, err)
	}

	dep := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)
	if err := tc.CreateSchedules(ctx, id, []domain.TourSchedule{{DepartureDate: dep, MaxParticipant: 20, AdultPrice: 100}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schedules) != 1 || schedules[0].DepartureDate != "2030-05-01" {
		t.Fatalf("schedules = %+v", schedules)
	}

	v := domain.Visit{LocationID: "l1", DayOrder: 1, StartTime: "09:00:00", EndTime: "10:00:00", EstimatedStartTime: 32400, EstimatedEndTime: 36000}
	if err := tc.CreateLocations(ctx, id, []domain.Visit{v}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(visits) != 1 || visits[0].LocationID != "l1" || visits[0].EstimatedEndTime != 36000 {
		t.Fatalf("visits = %+v", visits)
	}
}

func TestCreateBasicInfoDoesNotRetry(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusServiceUnavailable)
	})

	_, err := NewTourClient(c).CreateBasicInfo(context.Background(), domain.TourBasicInfo{Name: "x"})

	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want StatusError 503", err)
	}
	if hits.Load() != 1 {
		t.Fatalf("hits = %d, want 1", hits.Load())
	}
}

type countingCatalog struct {
	list, get atomic.Int32
}

func (c *countingCatalog) ListLocations(context.Context) ([]domain.Location, error) {
	c.list.Add(1)
	return []domain.Location{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}, nil
}

func (c *countingCatalog) GetLocation(_ context.Context, id string) (domain.Location, error) {
	c.get.Add(1)
	if id == "zz" {
		return domain.Location{}, ports.ErrLocationNotFound
	}
	return domain.Location{ID: id}, nil
}

func TestCachedLocationCatalog(t *testing.T) {
	next := &countingCatalog{}
	c := NewCachedLocationCatalog(next, time.Minute, 10)
	defer c.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if ls, err := c.ListLocations(ctx); err != nil || len(ls) != 2 {
			t.Fatalf("list = %v, %v", ls, err)
		}
	}
	if next.list.Load() != 1 {
		t.Fatalf("upstream list calls = %d, want 1", next.list.Load())
	}

	if _, err := c.GetLocation(ctx, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.get.Load() != 0 {
		t.Fatalf("get should be served from the listed entries")
	}

	if _, err := c.GetLocation(ctx, "zz"); !errors.Is(err, ports.ErrLocationNotFound) {
		t.Fatalf("err = %v", err)
	}

	c.Purge()
	if _, err := c.ListLocations(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.list.Load() != 2 {
		t.Fatalf("purge should force a refetch")
	}
}
