package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geostory",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geostory",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"method", "path"})

	// Pipeline metrics
	CatalogEntriesListed = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geostory",
		Subsystem: "pipeline",
		Name:      "catalog_entries",
		Help:      "Catalog size observed per pipeline run",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})

	NearbyDocuments = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geostory",
		Subsystem: "pipeline",
		Name:      "nearby_documents",
		Help:      "Documents surviving the geo filter per pipeline run",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	FetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geostory",
		Subsystem: "pipeline",
		Name:      "fetch_failures_total",
		Help:      "Total per-document gateway fetch failures",
	})

	AnalysisFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geostory",
		Subsystem: "pipeline",
		Name:      "analysis_failures_total",
		Help:      "Total per-document analysis backend failures",
	})

	ArticlesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "geostory",
		Subsystem: "pipeline",
		Name:      "articles_generated_total",
		Help:      "Total articles synthesized successfully",
	})

	PipelineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geostory",
		Subsystem: "pipeline",
		Name:      "run_duration_seconds",
		Help:      "End-to-end pipeline run duration",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	// Backend metrics
	BackendCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geostory",
		Subsystem: "backend",
		Name:      "call_duration_seconds",
		Help:      "Generative backend call latency by operation",
		Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"operation"})

	// Cache metrics
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geostory",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geostory",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
