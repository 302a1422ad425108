// Package geocode resolves a query's location: a postal code in the text is
// geocoded through the external collaborator, otherwise device coordinates
// are used as supplied. This is the pipeline's only outbound network call.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nourishdc/siteseeker/cache"
	"github.com/nourishdc/siteseeker/catalog"
	"github.com/nourishdc/siteseeker/common/logger"
	"github.com/nourishdc/siteseeker/metrics"
)

// ErrLocationUnresolved is returned when no postal code is present, no
// device coordinates were supplied, or geocoding failed.
var ErrLocationUnresolved = errors.New("geocode: location unresolved")

// Geocoder turns a postal code into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, postal string) (catalog.Coordinates, error)
}

// Resolver applies the postal-code-first precedence over a Geocoder, with
// an LRU cache keyed by postal code.
type Resolver struct {
	geocoder Geocoder
	cache    cache.Cache
	ttl      time.Duration
}

// NewResolver wraps a geocoder. cacheSize <= 0 disables caching.
func NewResolver(geocoder Geocoder, cacheSize int, ttl time.Duration) *Resolver {
	r := &Resolver{geocoder: geocoder, ttl: ttl}
	if cacheSize > 0 {
		r.cache = cache.NewLRU(cacheSize, ttl)
	}
	return r
}

// ResolveQuery resolves the request location. Precedence: a postal code in
// the query text wins; device coordinates are used only when no postal code
// is present; otherwise ErrLocationUnresolved. A geocoding failure for an
// extracted postal code is unresolved, not a fallback to device coordinates.
func (r *Resolver) ResolveQuery(ctx context.Context, query string, device *catalog.Coordinates) (catalog.Coordinates, error) {
	if postal, ok := ExtractPostalCode(query); ok {
		return r.resolvePostal(ctx, postal)
	}
	if device != nil {
		return *device, nil
	}
	return catalog.Coordinates{}, ErrLocationUnresolved
}

func (r *Resolver) resolvePostal(ctx context.Context, postal string) (catalog.Coordinates, error) {
	if r.cache != nil {
		if v, ok := r.cache.Get(postal); ok {
			metrics.ObserveGeocodeCache(true)
			logger.Debugf("geocode: cache hit for %s", postal)
			return v.(catalog.Coordinates), nil
		}
		metrics.ObserveGeocodeCache(false)
	}
	if r.geocoder == nil {
		return catalog.Coordinates{}, ErrLocationUnresolved
	}
	coords, err := r.geocoder.Geocode(ctx, postal)
	if err != nil {
		metrics.ObserveCollaboratorFailure("geocoder")
		logger.Warnf("geocode: resolving %s failed: %v", postal, err)
		return catalog.Coordinates{}, fmt.Errorf("%w: %s", ErrLocationUnresolved, postal)
	}
	if r.cache != nil {
		r.cache.Set(postal, coords, r.ttl)
	}
	return coords, nil
}
