package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/platform/obs"
	"tour-composer-service/internal/ports"

	"golang.org/x/time/rate"
)

const DefaultVietmapBaseURL = "https://maps.vietmap.vn"

// VietmapRouteProvider implements RouteProvider using the Vietmap routing API.
//
// Requests are throttled by a token bucket shared by all callers. The
// provider is safe for concurrent use.
type VietmapRouteProvider struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	vehicle     string
	limiter     *rate.Limiter
	maxAttempts int
	backoff     time.Duration
}

type VietmapOption func(*VietmapRouteProvider)

func WithHTTPClient(c *http.Client) VietmapOption {
	return func(v *VietmapRouteProvider) { v.session = c }
}

// WithRateLimit caps outgoing requests per second. rps <= 0 disables it.
func WithRateLimit(rps float64) VietmapOption {
	return func(v *VietmapRouteProvider) {
		if rps <= 0 {
			v.limiter = nil
			return
		}
		v.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRetry allows up to attempts tries per lookup on transient failures.
func WithRetry(attempts int, backoff time.Duration) VietmapOption {
	return func(v *VietmapRouteProvider) {
		v.maxAttempts = attempts
		v.backoff = backoff
	}
}

func NewVietmapRouteProvider(apiKey, baseURL string, opts ...VietmapOption) (*VietmapRouteProvider, error) {
	if apiKey == "" {
		return nil, errors.New("vietmap api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultVietmapBaseURL
	}

	v := &VietmapRouteProvider{
		session:     &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		vehicle:     "car",
		maxAttempts: 1,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

type vietmapRouteResponse struct {
	Paths []struct {
		Distance float64 `json:"distance"`
		Time     float64 `json:"time"`
	} `json:"paths"`
}

func (v *VietmapRouteProvider) Route(
	ctx context.Context,
	from, to domain.Coordinates,
) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "routing.vietmap.Route")(&err)

	if !from.Valid() || !to.Valid() {
		return ports.RouteResult{}, fmt.Errorf("vietmap route: invalid coordinates %s -> %s", from.Point(), to.Point())
	}

	q := url.Values{}
	q.Set("api-version", "1.1")
	q.Set("apikey", v.apiKey)
	q.Add("point", from.Point())
	q.Add("point", to.Point())
	q.Set("vehicle", v.vehicle)
	endpoint := v.baseURL + "/api/route?" + q.Encode()

	resp, err := v.doWithRetry(ctx, func() (*http.Request, error) {
		return v.newRequest(ctx, endpoint)
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("vietmap route: %w", err)
	}
	defer resp.Body.Close()

	var body vietmapRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.RouteResult{}, fmt.Errorf("vietmap route: decode response: %w", err)
	}
	if len(body.Paths) == 0 {
		return ports.RouteResult{}, fmt.Errorf("vietmap route %s -> %s: no path", from.Point(), to.Point())
	}

	p := body.Paths[0]
	return ports.RouteResult{
		DistanceKm:  int(math.Round(p.Distance / 1000)),
		DurationMin: int(math.Round(p.Time / 60000)),
	}, nil
}
