package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/wizard"
)

type nopGateway struct{}

func (nopGateway) CreateBasicInfo(context.Context, domain.TourBasicInfo) (string, error) {
	return "t", nil
}

func (nopGateway) CreateSchedules(context.Context, string, []domain.TourSchedule) error { return nil }

func (nopGateway) CreateLocations(context.Context, string, []domain.Visit) error { return nil }

func newTestRegistry(ttl time.Duration, maxSessions int) *Registry {
	return NewRegistry(wizard.Deps{Gateway: nopGateway{}}, ttl, maxSessions)
}

func TestCreateAndGet(t *testing.T) {
	r := newTestRegistry(time.Minute, 10)
	defer r.Close()

	s, err := r.Create(domain.TourFlow())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID == "" {
		t.Fatalf("expected an id")
	}

	got, err := r.Get(s.ID)
	if err != nil || got != s {
		t.Fatalf("Get = %v, %v", got, err)
	}

	if _, err := r.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteCancelsInFlightWork(t *testing.T) {
	r := newTestRegistry(time.Minute, 10)
	defer r.Close()

	s, _ := r.Create(domain.TourFlow())

	started := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		result <- s.Do(context.Background(), func(ctx context.Context, _ *wizard.Controller) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	<-started
	if !r.Delete(s.ID) {
		t.Fatalf("delete reported missing session")
	}

	select {
	case err := <-result:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("in-flight work was not cancelled")
	}

	if err := s.Do(context.Background(), func(context.Context, *wizard.Controller) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestDoSerializesAccess(t *testing.T) {
	r := newTestRegistry(time.Minute, 10)
	defer r.Close()

	s, _ := r.Create(domain.TourFlow())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		overlap bool
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Do(context.Background(), func(context.Context, *wizard.Controller) error {
				mu.Lock()
				active++
				if active > 1 {
					overlap = true
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if overlap {
		t.Fatalf("Do calls overlapped")
	}
}

func TestSessionsExpire(t *testing.T) {
	r := newTestRegistry(20*time.Millisecond, 10)
	defer r.Close()

	s, _ := r.Create(domain.TourFlow())

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("session did not expire")
	}

	if _, err := r.Get(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestOldestSessionEvictedAtCapacity(t *testing.T) {
	r := newTestRegistry(time.Minute, 1)
	defer r.Close()

	first, _ := r.Create(domain.TourFlow())
	_, _ = r.Create(domain.TourFlow())

	select {
	case <-first.Done():
	default:
		t.Fatalf("evicted session should be cancelled")
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
}

func TestCloseEndsAllSessions(t *testing.T) {
	r := newTestRegistry(time.Minute, 10)
	s, _ := r.Create(domain.WorkshopFlow(false))

	r.Close()

	select {
	case <-s.Done():
	default:
		t.Fatalf("close should cancel sessions")
	}
}
