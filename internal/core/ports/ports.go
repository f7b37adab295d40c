package ports

import (
	"context"

	"github.com/samirrijal/geostory/internal/core/domain"
)

// CatalogProvider enumerates pinned objects and their metadata.
type CatalogProvider interface {
	ListPinned(ctx context.Context) ([]domain.CatalogEntry, error)
}

// ContentGateway fetches raw bytes by content identifier. The same CID
// always yields the same bytes; the gateway is the only party that resolves
// where those bytes live.
type ContentGateway interface {
	Fetch(ctx context.Context, cid string) ([]byte, error)
}

// Generator is the generative backend: text or media in, text out. It is
// fallible, possibly slow, and stateless; callers issue at most one call per
// analysis unit and never retry here.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
	GenerateFromAudio(ctx context.Context, prompt string, audio []byte, mimeType string) (string, error)
}

// EventPublisher emits pipeline events to a message broker. Implementations
// must tolerate being nil-checked away; the pipeline behaves identically
// with events disabled.
type EventPublisher interface {
	PublishRunCompleted(ctx context.Context, run *domain.PipelineRun) error
	PublishDocumentFailed(ctx context.Context, cid, stage, reason string) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// RunRepository persists pipeline run records.
type RunRepository interface {
	Insert(ctx context.Context, run *domain.PipelineRun) error
	ListRecent(ctx context.Context, limit int) ([]domain.PipelineRun, error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
