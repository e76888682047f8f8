package cache

import (
	"context"
	"log"
	"strings"

	"trip-planner-service/internal/ports"
)

// CachedGeocoder decorates a Geocoder with the persistent geocode
// cache. Cache write failures are logged, never fatal; the resolved
// result is still returned.
type CachedGeocoder struct {
	Inner ports.Geocoder
	Cache *SqliteGeocodeCache
}

func NewCachedGeocoder(inner ports.Geocoder, cache *SqliteGeocodeCache) *CachedGeocoder {
	return &CachedGeocoder{Inner: inner, Cache: cache}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, query string) (ports.GeocodeResult, error) {
	norm := strings.Join(strings.Fields(query), " ")

	if g.Cache != nil {
		hit, err := g.Cache.Get(ctx, norm)
		if err != nil {
			log.Printf("geocode cache read failed: %v", err)
		} else if hit != nil {
			return *hit, nil
		}
	}

	result, err := g.Inner.Geocode(ctx, norm)
	if err != nil {
		return ports.GeocodeResult{}, err
	}

	if g.Cache != nil {
		if err := g.Cache.Put(ctx, norm, result); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return result, nil
}
