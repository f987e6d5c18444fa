package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/ports"
	"github.com/kirillkom/trialsage/internal/core/scoring"
)

type EvaluateUseCase struct {
	corpus    ports.ReferenceCorpus
	generator ports.SummaryGenerator
	writer    ports.ReportWriter
	observer  ports.EvaluationObserver
}

// NewEvaluateUseCase builds the batch evaluator. observer may be nil.
func NewEvaluateUseCase(
	corpus ports.ReferenceCorpus,
	generator ports.SummaryGenerator,
	writer ports.ReportWriter,
	observer ports.EvaluationObserver,
) *EvaluateUseCase {
	if observer == nil {
		observer = noopObserver{}
	}
	return &EvaluateUseCase{
		corpus:    corpus,
		generator: generator,
		writer:    writer,
		observer:  observer,
	}
}

// Evaluate summarizes every reference document in order, scores it, notifies
// the observer as each document finishes and persists the report. A failing
// document is skipped, never fatal. When no document could be scored the
// report is returned unpersisted with domain.ErrNoDocumentsScored. On
// cancellation the partial report is returned unpersisted with ctx.Err().
func (uc *EvaluateUseCase) Evaluate(ctx context.Context) (*domain.EvaluationReport, error) {
	ids, err := uc.corpus.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reference documents: %w", err)
	}

	tally := scoring.NewTally()
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			partial, _ := tally.Report()
			return partial, err
		}
		uc.notify(tally.Add(uc.buildEntry(ctx, id)))
	}

	report, scoreErr := tally.Report()
	if scoreErr != nil {
		return report, scoreErr
	}

	if err := uc.writer.WriteReport(ctx, report); err != nil {
		return report, fmt.Errorf("write report: %w", err)
	}
	return report, nil
}

func (uc *EvaluateUseCase) buildEntry(ctx context.Context, id string) domain.CorpusEntry {
	reference, err := uc.corpus.LoadReference(ctx, id)
	if err != nil {
		reason := domain.SkipInvalidReference
		if errors.Is(err, domain.ErrDocumentNotFound) {
			reason = domain.SkipMissingReference
		}
		return skipped(id, reason, err, "")
	}

	text, err := uc.corpus.LoadProtocolText(ctx, id)
	if err != nil {
		return skipped(id, domain.SkipMissingProtocolText, err, "")
	}

	raw, err := uc.generator.GenerateSummary(ctx, text)
	if err != nil {
		return skipped(id, domain.SkipNoGeneratorOutput, err, "")
	}

	generated, err := domain.ParseSummary(raw)
	switch {
	case errors.Is(err, domain.ErrNoOutput):
		return skipped(id, domain.SkipNoGeneratorOutput, err, "")
	case err != nil:
		return skipped(id, domain.SkipInvalidGeneratorOutput, err, raw)
	}

	return domain.CorpusEntry{DocumentID: id, Generated: generated, Reference: reference}
}

func (uc *EvaluateUseCase) notify(score *domain.DocumentScore, skip *domain.SkippedDocument) {
	if score != nil {
		uc.observer.DocumentScored(*score)
	}
	if skip != nil {
		uc.observer.DocumentSkipped(*skip)
	}
}

func skipped(id string, reason domain.SkipReason, err error, raw string) domain.CorpusEntry {
	return domain.CorpusEntry{
		DocumentID: id,
		Skip: &domain.SkippedDocument{
			Document:  id,
			Reason:    reason,
			Detail:    err.Error(),
			RawOutput: raw,
		},
	}
}

type noopObserver struct{}

func (noopObserver) DocumentScored(domain.DocumentScore)     {}
func (noopObserver) DocumentSkipped(domain.SkippedDocument) {}
