package usecases_test

import (
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/geostory/internal/core/domain"
	"github.com/samirrijal/geostory/internal/core/usecases"
)

func taggedEntry(cid, lat, lon string) domain.CatalogEntry {
	return domain.CatalogEntry{
		CID:      cid,
		Metadata: map[string]string{"latitude": lat, "longitude": lon},
	}
}

func TestFilterNearby_RadiusScenario(t *testing.T) {
	target := domain.GeoPoint{Lat: 40.0, Lon: -75.0}
	entries := []domain.CatalogEntry{
		taggedEntry("QmNear", "40.01", "-75.01"), // ~1.4 km
		taggedEntry("QmFar", "41.5", "-75.0"),    // ~167 km
	}

	nearby, err := usecases.FilterNearby(target, entries, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nearby) != 1 {
		t.Fatalf("expected 1 nearby entry, got %d", len(nearby))
	}
	if nearby[0].CID != "QmNear" {
		t.Errorf("expected QmNear, got %s", nearby[0].CID)
	}
}

func TestFilterNearby_PreservesOrder(t *testing.T) {
	target := domain.GeoPoint{Lat: 40.0, Lon: -75.0}
	entries := []domain.CatalogEntry{
		taggedEntry("QmC", "40.02", "-75.0"),
		taggedEntry("QmA", "40.0", "-75.0"),
		taggedEntry("QmB", "40.01", "-75.01"),
	}

	nearby, err := usecases.FilterNearby(target, entries, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"QmC", "QmA", "QmB"}
	if len(nearby) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(nearby))
	}
	for i, cid := range want {
		if nearby[i].CID != cid {
			t.Errorf("position %d: expected %s, got %s", i, cid, nearby[i].CID)
		}
	}
}

func TestFilterNearby_SkipsUntaggedEntries(t *testing.T) {
	target := domain.GeoPoint{Lat: 40.0, Lon: -75.0}
	entries := []domain.CatalogEntry{
		{CID: "QmNoMeta"},
		{CID: "QmNoLon", Metadata: map[string]string{"latitude": "40.0"}},
		{CID: "QmBadLat", Metadata: map[string]string{"latitude": "north", "longitude": "-75.0"}},
		taggedEntry("QmGood", "40.0", "-75.0"),
	}

	nearby, err := usecases.FilterNearby(target, entries, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nearby) != 1 || nearby[0].CID != "QmGood" {
		t.Errorf("expected only QmGood, got %v", nearby)
	}
}

func TestFilterNearby_InvalidTarget(t *testing.T) {
	entries := []domain.CatalogEntry{taggedEntry("QmA", "40.0", "-75.0")}

	bad := []domain.GeoPoint{
		{Lat: math.NaN(), Lon: -75.0},
		{Lat: 40.0, Lon: math.Inf(1)},
		{Lat: 95.0, Lon: -75.0},
		{Lat: 40.0, Lon: -200.0},
	}
	for _, target := range bad {
		_, err := usecases.FilterNearby(target, entries, 50)
		if !errors.Is(err, domain.ErrInvalidTarget) {
			t.Errorf("target %+v: expected ErrInvalidTarget, got %v", target, err)
		}
	}
}

func TestFilterNearby_DefaultRadius(t *testing.T) {
	target := domain.GeoPoint{Lat: 40.0, Lon: -75.0}
	entries := []domain.CatalogEntry{
		taggedEntry("QmNear", "40.01", "-75.01"),
		taggedEntry("QmFar", "41.5", "-75.0"),
	}

	// radius <= 0 falls back to the 50 km default
	nearby, err := usecases.FilterNearby(target, entries, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nearby) != 1 || nearby[0].CID != "QmNear" {
		t.Errorf("expected only QmNear with default radius, got %v", nearby)
	}
}
