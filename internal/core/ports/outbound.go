package ports

import (
	"context"
	"io"

	"github.com/kirillkom/trialsage/internal/core/domain"
)

// SummaryGenerator asks a model to summarize protocol text. It returns the
// raw model reply, which is expected but not guaranteed to be JSON.
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, protocolText string) (string, error)
}

// TextExtractor converts a source document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.SourceDocument) (string, error)
}

// ObjectStorage stores and lists files under relative keys.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context) ([]string, error)
}

// ReferenceCorpus exposes gold-standard summaries and their protocol texts.
// Missing files are reported as domain.ErrDocumentNotFound.
type ReferenceCorpus interface {
	ListDocuments(ctx context.Context) ([]string, error)
	LoadReference(ctx context.Context, documentID string) (*domain.StructuredSummary, error)
	LoadProtocolText(ctx context.Context, documentID string) (string, error)
}

// ReportWriter persists an evaluation report.
type ReportWriter interface {
	WriteReport(ctx context.Context, report *domain.EvaluationReport) error
}

// ReportReader loads the last persisted evaluation report.
type ReportReader interface {
	ReadReport(ctx context.Context) (*domain.EvaluationReport, error)
}

// EvaluationObserver receives per-document evaluation outcomes.
type EvaluationObserver interface {
	DocumentScored(score domain.DocumentScore)
	DocumentSkipped(skip domain.SkippedDocument)
}
