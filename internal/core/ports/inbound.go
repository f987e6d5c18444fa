package ports

import (
	"context"

	"github.com/kirillkom/trialsage/internal/core/domain"
)

// ProtocolSummarizer is the inbound contract for single-document summaries.
type ProtocolSummarizer interface {
	SummarizeDocument(ctx context.Context, doc domain.SourceDocument) (*domain.SummaryResult, error)
	SummarizeText(ctx context.Context, protocolText string) (*domain.SummaryResult, error)
}

// CorpusEvaluator is the inbound contract for batch evaluation.
type CorpusEvaluator interface {
	Evaluate(ctx context.Context) (*domain.EvaluationReport, error)
}

// ProtocolPreprocessor converts raw protocol files into plain text files.
type ProtocolPreprocessor interface {
	Preprocess(ctx context.Context) (*domain.PreprocessResult, error)
}
