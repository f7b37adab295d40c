package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/samirrijal/geostory/internal/core/domain"
	"github.com/samirrijal/geostory/internal/core/usecases"
)

func analyzedDoc(cid, analysis string) domain.AnalyzedDocument {
	return domain.AnalyzedDocument{
		RetrievedDocument: domain.RetrievedDocument{
			CatalogEntry: domain.CatalogEntry{CID: cid},
		},
		Analysis: analysis,
	}
}

func TestSynthesize_Success(t *testing.T) {
	var seenPrompt string
	gen := &mockGenerator{
		textFn: func(ctx context.Context, prompt string) (string, error) {
			seenPrompt = prompt
			return "The complete story.", nil
		},
	}

	svc := usecases.NewSynthesisService(gen)
	analyzed := []domain.AnalyzedDocument{
		analyzedDoc("QmA", "A mural was painted on Elm Street."),
		analyzedDoc("QmB", "Local radio covered the unveiling."),
	}

	article, err := svc.Synthesize(context.Background(), analyzed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if article.Text != "The complete story." {
		t.Errorf("got article %q", article.Text)
	}
	if len(article.Documents) != 2 {
		t.Errorf("expected traceable documents on the article, got %d", len(article.Documents))
	}

	if !strings.Contains(seenPrompt, "unbiased and factual") {
		t.Errorf("journalist frame missing from prompt")
	}
	if !strings.Contains(seenPrompt, "A mural was painted on Elm Street.\n\nLocal radio covered the unveiling.") {
		t.Errorf("analyses not joined by blank lines:\n%s", seenPrompt)
	}
}

func TestSynthesize_FiltersFailedAnalyses(t *testing.T) {
	var seenPrompt string
	gen := &mockGenerator{
		textFn: func(ctx context.Context, prompt string) (string, error) {
			seenPrompt = prompt
			return "article", nil
		},
	}

	svc := usecases.NewSynthesisService(gen)
	analyzed := []domain.AnalyzedDocument{
		analyzedDoc("QmOK", "The only real evidence."),
		analyzedDoc("QmErr", "Error analyzing image content"),
		analyzedDoc("QmNone", usecases.NoContentAnalysis),
		analyzedDoc("QmEmpty", ""),
	}

	if _, err := svc.Synthesize(context.Background(), analyzed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(seenPrompt, "The only real evidence.") {
		t.Error("surviving analysis missing from prompt")
	}
	if strings.Contains(seenPrompt, "Error analyzing") || strings.Contains(seenPrompt, usecases.NoContentAnalysis) {
		t.Errorf("failed analyses leaked into prompt:\n%s", seenPrompt)
	}
}

func TestSynthesize_NoValidAnalyses(t *testing.T) {
	gen := &mockGenerator{}
	svc := usecases.NewSynthesisService(gen)

	analyzed := []domain.AnalyzedDocument{
		analyzedDoc("QmA", "Error analyzing text content: quota exceeded"),
		analyzedDoc("QmB", usecases.NoContentAnalysis),
	}

	_, err := svc.Synthesize(context.Background(), analyzed)
	if !errors.Is(err, domain.ErrNoValidAnalyses) {
		t.Fatalf("expected ErrNoValidAnalyses, got %v", err)
	}
	if gen.calls.Load() != 0 {
		t.Errorf("no backend call expected when the evidence set is empty, saw %d", gen.calls.Load())
	}
}

func TestSynthesize_EmptyInput(t *testing.T) {
	svc := usecases.NewSynthesisService(&mockGenerator{})
	_, err := svc.Synthesize(context.Background(), nil)
	if !errors.Is(err, domain.ErrNoValidAnalyses) {
		t.Fatalf("expected ErrNoValidAnalyses, got %v", err)
	}
}

func TestSynthesize_BackendFailure(t *testing.T) {
	gen := &mockGenerator{
		textFn: func(ctx context.Context, prompt string) (string, error) {
			return "", fmt.Errorf("model unavailable")
		},
	}

	svc := usecases.NewSynthesisService(gen)
	_, err := svc.Synthesize(context.Background(), []domain.AnalyzedDocument{
		analyzedDoc("QmA", "good evidence"),
	})
	if !errors.Is(err, domain.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
}
