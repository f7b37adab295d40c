package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/geostory/internal/core/domain"
	"github.com/samirrijal/geostory/internal/core/ports"
	"github.com/samirrijal/geostory/internal/pkg/metrics"
)

const catalogCacheKey = "catalog:pinned"

// catalogCacheTTL is short on purpose: the pin list changes as users upload,
// and only the listing is cached, never document bodies.
const catalogCacheTTL = 60

// Pipeline composes catalog filtering, content fetching, per-document
// analysis, and narrative synthesis into one entry point for the transport
// layer.
type Pipeline struct {
	catalog     ports.CatalogProvider
	fetcher     *FetchService
	analyzer    *AnalysisService
	synthesizer *SynthesisService
	cache       ports.CacheService
	runs        ports.RunRepository
	events      ports.EventPublisher
	radiusKm    float64
}

// NewPipeline wires the pipeline. cache, runs, and events may be nil; the
// pipeline's behavior is identical without them.
func NewPipeline(
	catalog ports.CatalogProvider,
	fetcher *FetchService,
	analyzer *AnalysisService,
	synthesizer *SynthesisService,
	cache ports.CacheService,
	runs ports.RunRepository,
	events ports.EventPublisher,
	radiusKm float64,
) *Pipeline {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	return &Pipeline{
		catalog:     catalog,
		fetcher:     fetcher,
		analyzer:    analyzer,
		synthesizer: synthesizer,
		cache:       cache,
		runs:        runs,
		events:      events,
		radiusKm:    radiusKm,
	}
}

// DiscoverNearby lists the catalog and returns the entries within radiusKm
// of target, without fetching any content.
func (p *Pipeline) DiscoverNearby(ctx context.Context, target domain.GeoPoint, radiusKm float64) ([]domain.CatalogEntry, error) {
	if !target.Valid() {
		return nil, domain.ErrInvalidTarget
	}
	if radiusKm <= 0 {
		radiusKm = p.radiusKm
	}

	entries, err := p.listCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return FilterNearby(target, entries, radiusKm)
}

// DiscoverAndSynthesize runs the full pipeline: filter the catalog around
// target, fetch and analyze each nearby document, and synthesize one
// article. Per-document failures degrade the result; request-level failures
// (invalid target, catalog outage, no evidence, synthesis failure) propagate
// as typed errors.
func (p *Pipeline) DiscoverAndSynthesize(ctx context.Context, target domain.GeoPoint, radiusKm float64) (*domain.Article, error) {
	if !target.Valid() {
		return nil, domain.ErrInvalidTarget
	}
	if radiusKm <= 0 {
		radiusKm = p.radiusKm
	}

	ctx, span := otel.Tracer("geostory/pipeline").Start(ctx, "DiscoverAndSynthesize")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("target.lat", target.Lat),
		attribute.Float64("target.lon", target.Lon),
		attribute.Float64("radius_km", radiusKm),
	)

	start := time.Now()
	run := &domain.PipelineRun{
		Target:    target,
		RadiusKm:  radiusKm,
		StartedAt: start.UTC(),
	}

	entries, err := p.listCatalog(ctx)
	if err != nil {
		return nil, p.finish(ctx, run, start, nil, err)
	}
	run.CatalogSize = len(entries)
	metrics.CatalogEntriesListed.Observe(float64(len(entries)))

	nearby, err := FilterNearby(target, entries, radiusKm)
	if err != nil {
		return nil, p.finish(ctx, run, start, nil, err)
	}
	run.NearbyCount = len(nearby)
	metrics.NearbyDocuments.Observe(float64(len(nearby)))
	slog.Info("catalog filtered", "catalog", len(entries), "nearby", len(nearby), "radius_km", radiusKm)

	docs := p.fetcher.FetchAll(ctx, nearby)
	for _, d := range docs {
		if d.FetchError != "" {
			metrics.FetchFailures.Inc()
		} else {
			run.FetchedOK++
		}
	}

	analyzed := p.analyzer.AnalyzeAll(ctx, docs)
	for _, d := range analyzed {
		if d.AnalysisError != "" {
			metrics.AnalysisFailures.Inc()
		} else if d.Analysis != NoContentAnalysis {
			run.AnalyzedOK++
		}
	}

	article, err := p.synthesizer.Synthesize(ctx, analyzed)
	if err != nil {
		return nil, p.finish(ctx, run, start, nil, err)
	}

	metrics.ArticlesGenerated.Inc()
	return article, p.finish(ctx, run, start, article, nil)
}

// listCatalog reads the pin list through the cache when one is configured.
func (p *Pipeline) listCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	if p.cache != nil {
		if data, err := p.cache.Get(ctx, catalogCacheKey); err == nil {
			var entries []domain.CatalogEntry
			if err := json.Unmarshal(data, &entries); err == nil {
				return entries, nil
			}
		}
	}

	entries, err := p.catalog.ListPinned(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalog, err)
	}

	if p.cache != nil {
		if data, err := json.Marshal(entries); err == nil {
			_ = p.cache.Set(ctx, catalogCacheKey, data, catalogCacheTTL)
		}
	}
	return entries, nil
}

// finish closes out the run record and publishes it. Bookkeeping failures
// are logged and swallowed; they never change the pipeline's outcome.
func (p *Pipeline) finish(ctx context.Context, run *domain.PipelineRun, start time.Time, article *domain.Article, err error) error {
	run.Duration = time.Since(start)
	metrics.PipelineDuration.Observe(run.Duration.Seconds())

	switch {
	case err == nil:
		run.Status = "ok"
	case errors.Is(err, domain.ErrNoValidAnalyses):
		run.Status = "no_evidence"
		run.Error = err.Error()
	default:
		run.Status = "error"
		run.Error = err.Error()
	}

	if p.runs != nil {
		if insertErr := p.runs.Insert(ctx, run); insertErr != nil {
			slog.Warn("pipeline run not recorded", "error", insertErr)
		}
	}
	if p.events != nil {
		if pubErr := p.events.PublishRunCompleted(ctx, run); pubErr != nil {
			slog.Warn("pipeline run event not published", "error", pubErr)
		}
	}

	if err != nil {
		slog.Warn("pipeline failed", "status", run.Status, "error", err, "duration", run.Duration)
	} else {
		slog.Info("article generated",
			"nearby", run.NearbyCount, "fetched_ok", run.FetchedOK,
			"analyzed_ok", run.AnalyzedOK, "duration", run.Duration)
	}
	return err
}
