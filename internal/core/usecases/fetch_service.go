package usecases

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samirrijal/geostory/internal/core/domain"
	"github.com/samirrijal/geostory/internal/core/ports"
)

// FetchErrorMessage is recorded on documents whose gateway retrieval failed.
const FetchErrorMessage = "Failed to fetch content"

// FetchService retrieves document bodies from the content gateway.
type FetchService struct {
	gateway ports.ContentGateway
	events  ports.EventPublisher
}

// NewFetchService creates a new FetchService. events may be nil.
func NewFetchService(gateway ports.ContentGateway, events ports.EventPublisher) *FetchService {
	return &FetchService{gateway: gateway, events: events}
}

// FetchAll retrieves every entry's content concurrently. The result has
// exactly the same length and order as the input regardless of completion
// order. A failed retrieval becomes a document with FetchError set; it never
// aborts the batch and is never retried here.
func (s *FetchService) FetchAll(ctx context.Context, entries []domain.CatalogEntry) []domain.RetrievedDocument {
	docs := make([]domain.RetrievedDocument, len(entries))

	var wg sync.WaitGroup
	for i, entry := range entries {
		wg.Add(1)
		go func(i int, entry domain.CatalogEntry) {
			defer wg.Done()

			content, err := s.gateway.Fetch(ctx, entry.CID)
			if err != nil {
				slog.Warn("document fetch failed", "cid", entry.CID, "error", err)
				if s.events != nil {
					_ = s.events.PublishDocumentFailed(ctx, entry.CID, "fetch", err.Error())
				}
				docs[i] = domain.RetrievedDocument{CatalogEntry: entry, FetchError: FetchErrorMessage}
				return
			}
			docs[i] = domain.RetrievedDocument{CatalogEntry: entry, Content: content}
		}(i, entry)
	}
	wg.Wait()

	return docs
}
