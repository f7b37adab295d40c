package pinata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samirrijal/geostory/internal/pkg/config"
)

func TestListPinned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/pinList" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("status") != "pinned" {
			t.Errorf("expected status=pinned, got %s", r.URL.RawQuery)
		}
		if r.Header.Get("pinata_api_key") != "key" || r.Header.Get("pinata_secret_api_key") != "secret" {
			t.Error("credentials not sent")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"count": 2,
			"rows": [
				{
					"ipfs_pin_hash": "QmA",
					"size": 1234,
					"date_pinned": "2024-06-01T12:00:00Z",
					"metadata": {
						"name": "mural.jpg",
						"keyvalues": {"latitude": "40.01", "longitude": "-75.01", "mime_type": "image/jpeg"}
					}
				},
				{
					"ipfs_pin_hash": "QmB",
					"size": 99,
					"date_pinned": "2024-06-02T08:30:00Z",
					"metadata": {"name": "untagged.txt", "keyvalues": null}
				}
			]
		}`))
	}))
	defer srv.Close()

	c := New(config.CatalogConfig{BaseURL: srv.URL, APIKey: "key", SecretKey: "secret"})
	entries, err := c.ListPinned(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.CID != "QmA" || first.Name != "mural.jpg" || first.MimeType != "image/jpeg" {
		t.Errorf("unexpected entry: %+v", first)
	}
	loc, ok := first.Location()
	if !ok || loc.Lat != 40.01 || loc.Lon != -75.01 {
		t.Errorf("expected geo-tag parsed, got %+v ok=%v", loc, ok)
	}
	if first.PinnedAt.IsZero() {
		t.Error("expected pinned_at parsed")
	}

	if _, ok := entries[1].Location(); ok {
		t.Error("untagged entry must have no location")
	}
}

func TestListPinned_NumericKeyvalues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":1,"rows":[{
			"ipfs_pin_hash": "QmC",
			"metadata": {"keyvalues": {"latitude": 40.5, "longitude": -75.25}}
		}]}`))
	}))
	defer srv.Close()

	c := New(config.CatalogConfig{BaseURL: srv.URL, APIKey: "k", SecretKey: "s"})
	entries, err := c.ListPinned(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loc, ok := entries[0].Location()
	if !ok || loc.Lat != 40.5 || loc.Lon != -75.25 {
		t.Errorf("numeric keyvalues not stringified correctly: %+v ok=%v", loc, ok)
	}
}

func TestListPinned_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		_, _ = w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	c := New(config.CatalogConfig{BaseURL: srv.URL, APIKey: "bad", SecretKey: "bad"})
	if _, err := c.ListPinned(context.Background()); err == nil {
		t.Fatal("expected an error for a 401 response")
	}
}
