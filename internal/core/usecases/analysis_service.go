package usecases

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samirrijal/geostory/internal/core/domain"
	"github.com/samirrijal/geostory/internal/core/ports"
)

// Modality preambles sent to the generative backend. Fixed configuration,
// not business logic, but required for behavioral parity across runs.
const (
	imagePreamble = "Please analyze this image and describe its key elements and significance."
	audioPreamble = "Transcribe this audio, then analyze the transcription and provide key insights."
	textPreamble  = "As an expert analyst, please analyze the following content and provide key insights. Focus on the main points and important details: "

	// Video is a known scope limitation: no frame decoding, no audio
	// extraction, just a fixed descriptive placeholder.
	videoPlaceholder = "Video content analysis placeholder - would analyze both visual and audio components"

	// NoContentAnalysis marks documents that never reached the backend
	// because they carry no content.
	NoContentAnalysis = "No content available for analysis"

	// analysisErrorPrefix begins every failed-analysis sentinel; the
	// synthesizer's evidence filter keys on it.
	analysisErrorPrefix = "Error analyzing"
)

// AnalysisService classifies document content and produces a per-document
// natural-language analysis through the generative backend.
type AnalysisService struct {
	gen    ports.Generator
	events ports.EventPublisher
}

// NewAnalysisService creates a new AnalysisService. events may be nil.
func NewAnalysisService(gen ports.Generator, events ports.EventPublisher) *AnalysisService {
	return &AnalysisService{gen: gen, events: events}
}

// AnalyzeOne analyzes a single document's content according to its declared
// MIME type. It never panics and never fails the caller: on backend failure
// the returned string is a sentinel beginning "Error analyzing <modality>
// content" and the error describes the cause. At most one backend call is
// made per invocation.
func (s *AnalysisService) AnalyzeOne(ctx context.Context, content []byte, mimeType string) (string, error) {
	switch kind := domain.ClassifyMime(mimeType); kind {
	case domain.KindImage:
		analysis, err := s.gen.GenerateFromImage(ctx, imagePreamble, content, mimeType)
		if err != nil {
			return "Error analyzing image content", err
		}
		return analysis, nil

	case domain.KindVideo:
		return videoPlaceholder, nil

	case domain.KindAudio:
		analysis, err := s.gen.GenerateFromAudio(ctx, audioPreamble, content, mimeType)
		if err != nil {
			return "Error analyzing audio content", err
		}
		return analysis, nil

	case domain.KindJSON:
		return s.analyzeText(ctx, prettyJSON(content))

	case domain.KindPDF:
		// No PDF text extraction yet; the raw bytes go through the text
		// path, matching the generic fallback.
		return s.analyzeText(ctx, string(content))

	default:
		return s.analyzeText(ctx, string(content))
	}
}

func (s *AnalysisService) analyzeText(ctx context.Context, text string) (string, error) {
	analysis, err := s.gen.GenerateText(ctx, textPreamble+text)
	if err != nil {
		return fmt.Sprintf("Error analyzing text content: %v", err), err
	}
	return analysis, nil
}

// prettyJSON re-indents a JSON payload so the backend sees structure rather
// than a single line. Invalid JSON is passed through untouched.
func prettyJSON(content []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, content, "", "  "); err != nil {
		return string(content)
	}
	return buf.String()
}

// AnalyzeAll analyzes every document concurrently and never fails the batch.
// Documents without content are short-circuited to NoContentAnalysis without
// a backend call; backend failures become data on the document. Output is
// same-length and position-stable with the input.
func (s *AnalysisService) AnalyzeAll(ctx context.Context, docs []domain.RetrievedDocument) []domain.AnalyzedDocument {
	analyzed := make([]domain.AnalyzedDocument, len(docs))

	var wg sync.WaitGroup
	for i, doc := range docs {
		if !doc.HasContent() {
			analyzed[i] = domain.AnalyzedDocument{
				RetrievedDocument: doc,
				Analysis:          NoContentAnalysis,
			}
			continue
		}

		wg.Add(1)
		go func(i int, doc domain.RetrievedDocument) {
			defer wg.Done()

			analysis, err := s.AnalyzeOne(ctx, doc.Content, doc.MimeType)
			if err != nil {
				slog.Warn("document analysis failed", "cid", doc.CID, "mime_type", doc.MimeType, "error", err)
				if s.events != nil {
					_ = s.events.PublishDocumentFailed(ctx, doc.CID, "analysis", err.Error())
				}
				analyzed[i] = domain.AnalyzedDocument{
					RetrievedDocument: doc,
					Analysis:          analysis,
					AnalysisError:     err.Error(),
				}
				return
			}
			analyzed[i] = domain.AnalyzedDocument{RetrievedDocument: doc, Analysis: analysis}
		}(i, doc)
	}
	wg.Wait()

	return analyzed
}
