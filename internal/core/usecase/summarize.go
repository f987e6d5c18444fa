package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/ports"
)

type SummarizeUseCase struct {
	extractor ports.TextExtractor
	generator ports.SummaryGenerator
}

func NewSummarizeUseCase(extractor ports.TextExtractor, generator ports.SummaryGenerator) *SummarizeUseCase {
	return &SummarizeUseCase{
		extractor: extractor,
		generator: generator,
	}
}

// SummarizeDocument extracts text from doc and summarizes it.
// When the model reply is empty or not a summary the partial result is
// returned together with the error so callers can show the raw reply.
func (uc *SummarizeUseCase) SummarizeDocument(ctx context.Context, doc domain.SourceDocument) (*domain.SummaryResult, error) {
	if len(doc.Content) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "summarize document", errors.New("empty upload"))
	}

	text, err := uc.extractText(ctx, doc)
	if err != nil {
		return nil, err
	}

	result, err := uc.SummarizeText(ctx, text)
	if result != nil {
		result.SourceName = doc.Name
		result.DownloadName = domain.SummaryFileName(doc.Name)
	}
	return result, err
}

func (uc *SummarizeUseCase) SummarizeText(ctx context.Context, protocolText string) (*domain.SummaryResult, error) {
	if strings.TrimSpace(protocolText) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "summarize text", errors.New("protocol text is empty"))
	}

	raw, err := uc.generator.GenerateSummary(ctx, protocolText)
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	result := &domain.SummaryResult{
		Preview: domain.Preview(protocolText),
		Raw:     raw,
	}

	summary, err := domain.ParseSummary(raw)
	if err != nil {
		return result, fmt.Errorf("parse summary: %w", err)
	}

	formatted, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return result, fmt.Errorf("format summary: %w", err)
	}
	result.Summary = summary
	result.Formatted = string(formatted)
	return result, nil
}

func (uc *SummarizeUseCase) extractText(ctx context.Context, doc domain.SourceDocument) (string, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}
	return text, nil
}
