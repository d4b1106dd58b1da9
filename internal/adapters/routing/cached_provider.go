package routing

import (
	"context"
	"log"
	"tour-composer-service/internal/domain"
	"tour-composer-service/internal/ports"

	"golang.org/x/sync/singleflight"
)

// CachedRouteProvider consults a RouteCache before the wrapped provider and
// collapses concurrent lookups of the same pair into one upstream call.
// Cache failures are logged and never fail a lookup.
type CachedRouteProvider struct {
	next  ports.RouteProvider
	cache ports.RouteCache
	group singleflight.Group
}

func NewCachedRouteProvider(next ports.RouteProvider, cache ports.RouteCache) *CachedRouteProvider {
	return &CachedRouteProvider{next: next, cache: cache}
}

func (c *CachedRouteProvider) Route(ctx context.Context, from, to domain.Coordinates) (ports.RouteResult, error) {
	if c.cache != nil {
		r, ok, err := c.cache.Get(ctx, from, to)
		if err != nil {
			log.Printf("route cache read failed: from=%s to=%s err=%v", from.Point(), to.Point(), err)
		} else if ok {
			return r, nil
		}
	}

	key := from.Point() + "|" + to.Point()
	ch := c.group.DoChan(key, func() (any, error) {
		// Detached so one caller's cancellation does not fail the others.
		lctx := context.WithoutCancel(ctx)
		r, err := c.next.Route(lctx, from, to)
		if err != nil {
			return ports.RouteResult{}, err
		}
		if c.cache != nil {
			if err := c.cache.Put(lctx, from, to, r); err != nil {
				log.Printf("route cache write failed: from=%s to=%s err=%v", from.Point(), to.Point(), err)
			}
		}
		return r, nil
	})

	select {
	case <-ctx.Done():
		return ports.RouteResult{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return ports.RouteResult{}, res.Err
		}
		return res.Val.(ports.RouteResult), nil
	}
}
