package usecases

import (
	"github.com/samirrijal/geostory/internal/core/domain"
	"github.com/samirrijal/geostory/internal/pkg/geospatial"
)

// DefaultRadiusKm is the search radius used when the caller supplies none.
const DefaultRadiusKm = 50.0

// FilterNearby returns the catalog entries within radiusKm of target,
// preserving catalog order. Entries without numeric latitude/longitude
// metadata are skipped silently; untagged pins are an expected condition.
// The target itself must be a valid coordinate.
func FilterNearby(target domain.GeoPoint, entries []domain.CatalogEntry, radiusKm float64) ([]domain.CatalogEntry, error) {
	if !target.Valid() {
		return nil, domain.ErrInvalidTarget
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	var nearby []domain.CatalogEntry
	for _, entry := range entries {
		loc, ok := entry.Location()
		if !ok {
			continue
		}
		if geospatial.IsNearby(target.Lat, target.Lon, loc.Lat, loc.Lon, radiusKm) {
			nearby = append(nearby, entry)
		}
	}
	return nearby, nil
}
