package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samirrijal/geostory/internal/core/domain"
	"github.com/samirrijal/geostory/internal/core/ports"
)

const (
	synthesisRole = "You are a skilled journalist who writes engaging and informative articles. Focus on being unbiased and factual."

	synthesisFrame = "Based on the following analyses of different media and documents, " +
		"write a comprehensive article that tells the complete story. " +
		"Include relevant details from all sources while maintaining a coherent narrative flow."
)

// SynthesisService reduces per-document analyses into a single narrative.
type SynthesisService struct {
	gen ports.Generator
}

// NewSynthesisService creates a new SynthesisService.
func NewSynthesisService(gen ports.Generator) *SynthesisService {
	return &SynthesisService{gen: gen}
}

// Synthesize filters the analyses down to usable evidence, requires at least
// one surviving piece, and makes a single backend call with the aggregation
// prompt. A backend failure here is fatal for the request and is not retried.
// The full analyzed set rides along on the Article for traceability.
func (s *SynthesisService) Synthesize(ctx context.Context, analyzed []domain.AnalyzedDocument) (*domain.Article, error) {
	evidence := collectEvidence(analyzed)
	if len(evidence) == 0 {
		return nil, domain.ErrNoValidAnalyses
	}

	prompt := synthesisRole + "\nYou are writing an article about the following topic: " +
		synthesisFrame + "\n\nAnalyses:\n" + strings.Join(evidence, "\n\n")

	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSynthesis, err)
	}

	return &domain.Article{
		Text:        text,
		Documents:   analyzed,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// collectEvidence keeps analyses that actually say something: non-empty, not
// a failed-analysis sentinel, and not the no-content placeholder.
func collectEvidence(analyzed []domain.AnalyzedDocument) []string {
	var evidence []string
	for _, doc := range analyzed {
		a := doc.Analysis
		if a == "" || a == NoContentAnalysis || strings.HasPrefix(a, analysisErrorPrefix) {
			continue
		}
		evidence = append(evidence, a)
	}
	return evidence
}
