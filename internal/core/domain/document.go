package domain

import (
	"strconv"
	"time"
)

// Metadata keys the catalog provider uses for geo-tagging.
const (
	MetaLatitude  = "latitude"
	MetaLongitude = "longitude"
)

// CatalogEntry is one pinned object as reported by the catalog provider.
// The MIME type is whatever the uploader declared and may be absent or wrong;
// geo-tags live in the key-value metadata as numeric strings.
type CatalogEntry struct {
	CID       string            `json:"cid"`
	Name      string            `json:"name,omitempty"`
	MimeType  string            `json:"mime_type,omitempty"`
	SizeBytes int64             `json:"size_bytes,omitempty"`
	PinnedAt  time.Time         `json:"pinned_at,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Location parses the latitude/longitude metadata. ok is false when either
// key is missing or not numeric; entries without a usable location are an
// expected condition, not an error.
func (e CatalogEntry) Location() (GeoPoint, bool) {
	latStr, ok := e.Metadata[MetaLatitude]
	if !ok {
		return GeoPoint{}, false
	}
	lonStr, ok := e.Metadata[MetaLongitude]
	if !ok {
		return GeoPoint{}, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return GeoPoint{}, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return GeoPoint{}, false
	}
	p := GeoPoint{Lat: lat, Lon: lon}
	return p, p.Valid()
}

// RetrievedDocument is a CatalogEntry plus the outcome of fetching its bytes
// from the gateway. Exactly one of Content/FetchError is set. Values are
// built once by the fetcher and never mutated afterwards.
type RetrievedDocument struct {
	CatalogEntry
	Content    []byte `json:"-"`
	FetchError string `json:"fetch_error,omitempty"`
}

// HasContent reports whether the document carries usable bytes.
func (d RetrievedDocument) HasContent() bool {
	return d.FetchError == "" && len(d.Content) > 0
}

// AnalyzedDocument is a RetrievedDocument plus its analysis. Analysis is
// always present (a sentinel string when no content was available or the
// backend failed); AnalysisError is set only when the backend call failed.
type AnalyzedDocument struct {
	RetrievedDocument
	Analysis      string `json:"analysis"`
	AnalysisError string `json:"analysis_error,omitempty"`
}

// Article is the synthesized narrative plus the per-document analyses it was
// built from, kept for traceability. Articles are request-scoped and never
// persisted.
type Article struct {
	Text        string             `json:"article"`
	Documents   []AnalyzedDocument `json:"documents"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// PipelineRun is the operational record of one pipeline invocation: counts
// and outcome only, never the article text.
type PipelineRun struct {
	ID          string        `json:"id"`
	Target      GeoPoint      `json:"target"`
	RadiusKm    float64       `json:"radius_km"`
	CatalogSize int           `json:"catalog_size"`
	NearbyCount int           `json:"nearby_count"`
	FetchedOK   int           `json:"fetched_ok"`
	AnalyzedOK  int           `json:"analyzed_ok"`
	Status      string        `json:"status"` // "ok" | "no_evidence" | "error"
	Error       string        `json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}
