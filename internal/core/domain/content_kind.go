package domain

import "strings"

// ContentKind is the closed set of media categories the analyzer understands.
// Anything it cannot place falls back to KindText.
type ContentKind int

const (
	KindText ContentKind = iota
	KindImage
	KindVideo
	KindAudio
	KindPDF
	KindJSON
)

// String returns the kind name used in sentinel messages and logs.
func (k ContentKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindPDF:
		return "pdf"
	case KindJSON:
		return "json"
	default:
		return "text"
	}
}

// ClassifyMime maps a declared MIME type to a ContentKind. Prefix families
// (image/, video/, audio/) win over exact matches, matching the order the
// analyzer dispatches in. Parameters ("; charset=...") are ignored.
func ClassifyMime(mimeType string) ContentKind {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	switch {
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	case strings.HasPrefix(mt, "video/"):
		return KindVideo
	case strings.HasPrefix(mt, "audio/"):
		return KindAudio
	case mt == "application/pdf":
		return KindPDF
	case mt == "application/json":
		return KindJSON
	default:
		return KindText
	}
}
