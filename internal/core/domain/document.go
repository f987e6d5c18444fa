package domain

import (
	"path/filepath"
	"strings"
)

// SourceDocument is an uploaded or on-disk protocol before text extraction.
type SourceDocument struct {
	Name    string
	Content []byte
}

// Extension returns the lowercased file extension including the dot.
func (d SourceDocument) Extension() string {
	return strings.ToLower(filepath.Ext(d.Name))
}

// SummaryFileName derives the download name for a summary of the named source:
// everything before the first dot of the base name, plus "_summary.json".
func SummaryFileName(sourceName string) string {
	base := filepath.Base(strings.ReplaceAll(sourceName, "\\", "/"))
	if idx := strings.Index(base, "."); idx >= 0 {
		base = base[:idx]
	}
	return base + "_summary.json"
}

// PreviewLength is how many characters of protocol text are echoed back.
const PreviewLength = 1000

// Preview returns at most PreviewLength characters of text.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}

// SummaryResult is the outcome of summarizing one protocol.
// Summary and Formatted are empty when the model reply did not parse; Raw
// always holds the reply as received.
type SummaryResult struct {
	SourceName   string
	Preview      string
	Raw          string
	Summary      *StructuredSummary
	Formatted    string
	DownloadName string
}

// PreprocessResult lists what a preprocessing run converted and skipped.
type PreprocessResult struct {
	Converted []string
	Skipped   []PreprocessSkip
}

type PreprocessSkip struct {
	File   string
	Reason string
}
