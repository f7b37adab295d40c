package usecases_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/samirrijal/geostory/internal/core/domain"
	"github.com/samirrijal/geostory/internal/core/usecases"
)

// --- Mock ContentGateway ---

type mockGateway struct {
	fetchFn func(ctx context.Context, cid string) ([]byte, error)
}

func (m *mockGateway) Fetch(ctx context.Context, cid string) ([]byte, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, cid)
	}
	return nil, nil
}

// --- Tests ---

func TestFetchAll_SameLengthAndOrder(t *testing.T) {
	gw := &mockGateway{
		fetchFn: func(ctx context.Context, cid string) ([]byte, error) {
			return []byte("content of " + cid), nil
		},
	}

	svc := usecases.NewFetchService(gw, nil)
	entries := []domain.CatalogEntry{{CID: "QmA"}, {CID: "QmB"}, {CID: "QmC"}}

	docs := svc.FetchAll(context.Background(), entries)
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	for i, entry := range entries {
		if docs[i].CID != entry.CID {
			t.Errorf("position %d: expected %s, got %s", i, entry.CID, docs[i].CID)
		}
		if string(docs[i].Content) != "content of "+entry.CID {
			t.Errorf("position %d: wrong content %q", i, docs[i].Content)
		}
	}
}

func TestFetchAll_IsolatesFailures(t *testing.T) {
	gw := &mockGateway{
		fetchFn: func(ctx context.Context, cid string) ([]byte, error) {
			if cid == "QmBroken" {
				return nil, fmt.Errorf("gateway timeout")
			}
			return []byte("ok"), nil
		},
	}

	svc := usecases.NewFetchService(gw, nil)
	entries := []domain.CatalogEntry{{CID: "QmA"}, {CID: "QmBroken"}, {CID: "QmC"}}

	docs := svc.FetchAll(context.Background(), entries)
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}

	failed := 0
	for i, d := range docs {
		if d.FetchError != "" {
			failed++
			if d.CID != "QmBroken" {
				t.Errorf("wrong document failed: %s", d.CID)
			}
			if d.FetchError != usecases.FetchErrorMessage {
				t.Errorf("unexpected fetch error message: %q", d.FetchError)
			}
			if d.Content != nil {
				t.Error("failed document must not carry content")
			}
		} else if !d.HasContent() {
			t.Errorf("position %d: expected content", i)
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly 1 failure, got %d", failed)
	}
}

func TestFetchAll_AllFailing(t *testing.T) {
	gw := &mockGateway{
		fetchFn: func(ctx context.Context, cid string) ([]byte, error) {
			return nil, fmt.Errorf("not found")
		},
	}

	svc := usecases.NewFetchService(gw, nil)
	entries := []domain.CatalogEntry{{CID: "QmA"}, {CID: "QmB"}}

	docs := svc.FetchAll(context.Background(), entries)
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	for _, d := range docs {
		if d.FetchError != usecases.FetchErrorMessage {
			t.Errorf("expected fetch error on %s", d.CID)
		}
	}
}

func TestFetchAll_Empty(t *testing.T) {
	svc := usecases.NewFetchService(&mockGateway{}, nil)
	docs := svc.FetchAll(context.Background(), nil)
	if len(docs) != 0 {
		t.Errorf("expected empty result, got %d", len(docs))
	}
}
