package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samirrijal/geostory/internal/pkg/config"
)

func newTestClient(srvURL string) *Client {
	return New(config.GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
		BaseURL: srvURL,
	})
}

func TestGenerateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-1.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Error("api key missing from query")
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if _, ok := req["contents"]; !ok {
			t.Error("contents missing from request")
		}

		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"parts": [{"text": "part one "}, {"text": "part two"}]},
				"finishReason": "STOP"
			}]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	text, err := c.GenerateText(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "part one part two" {
		t.Errorf("got %q", text)
	}
}

func TestGenerateFromImage_InlineData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text       string `json:"text"`
					InlineData *struct {
						MimeType string `json:"mime_type"`
						Data     string `json:"data"`
					} `json:"inline_data"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		parts := req.Contents[0].Parts
		if len(parts) != 2 {
			t.Fatalf("expected prompt + inline data, got %d parts", len(parts))
		}
		if parts[1].InlineData == nil || parts[1].InlineData.MimeType != "image/png" {
			t.Errorf("inline image data not sent: %+v", parts[1])
		}
		if parts[1].InlineData.Data == "" {
			t.Error("image bytes not base64 encoded into request")
		}

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"a mural"}]}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	text, err := c.GenerateFromImage(context.Background(), "describe", []byte{0x89, 0x50}, "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "a mural" {
		t.Errorf("got %q", text)
	}
}

func TestGenerate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(429)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.GenerateText(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error should carry the API message, got %v", err)
	}
}

func TestGenerate_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.GenerateText(context.Background(), "hello"); err == nil {
		t.Fatal("expected an error for empty candidates")
	}
}
