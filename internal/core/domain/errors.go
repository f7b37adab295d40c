package domain

import "errors"

// Request-level pipeline failures. Per-document fetch and analysis failures
// are never errors; they are recorded on the document itself.
var (
	// ErrInvalidTarget means the requested coordinate is missing, NaN, or
	// out of range. Raised before any I/O.
	ErrInvalidTarget = errors.New("invalid target coordinate")

	// ErrCatalog means the catalog provider could not be listed at all.
	ErrCatalog = errors.New("catalog listing failed")

	// ErrNoValidAnalyses means every document analysis failed or none
	// qualified as evidence, so there is nothing to write about.
	ErrNoValidAnalyses = errors.New("no valid analyses to generate an article from")

	// ErrSynthesis means the final narrative-generation call failed.
	ErrSynthesis = errors.New("article synthesis failed")
)
