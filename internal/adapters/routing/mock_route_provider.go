package routing

import (
	"context"
	"fmt"
	"sync/atomic"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/ports"
)

type MockPair struct {
	From, To domain.Coordinates
	Km       int
	Minutes  int
}

// MockRouteProvider answers from a fixed table; unknown pairs fail like an
// unreachable gateway.
type MockRouteProvider struct {
	m     map[string]ports.RouteResult
	calls atomic.Int64
}

func NewMockRouteProvider(pairs []MockPair) *MockRouteProvider {
	m := make(map[string]ports.RouteResult, len(pairs))
	for _, p := range pairs {
		m[p.From.Point()+"|"+p.To.Point()] = ports.RouteResult{DistanceKm: p.Km, DurationMin: p.Minutes}
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) Route(ctx context.Context, from, to domain.Coordinates) (ports.RouteResult, error) {
	p.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return ports.RouteResult{}, err
	}

	r, ok := p.m[from.Point()+"|"+to.Point()]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("missing pair %s -> %s", from.Point(), to.Point())
	}

	return r, nil
}

// Calls returns how many lookups were attempted.
func (p *MockRouteProvider) Calls() int { return int(p.calls.Load()) }
