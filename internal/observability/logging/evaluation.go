package logging

import (
	"log/slog"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/ports"
)

// EvaluationLogger writes one line per evaluated document.
type EvaluationLogger struct {
	logger *slog.Logger
}

func NewEvaluationLogger(logger *slog.Logger) *EvaluationLogger {
	return &EvaluationLogger{logger: logger}
}

func (l *EvaluationLogger) DocumentScored(score domain.DocumentScore) {
	l.logger.Info("document_scored",
		"document", score.Document,
		"objective_rougeL", score.ObjectiveRougeL,
		"inclusion_accuracy", score.InclusionAccuracy,
		"exclusion_accuracy", score.ExclusionAccuracy,
		"primary_endpoint_accuracy", score.PrimaryEndpointAccuracy,
		"secondary_endpoint_accuracy", score.SecondaryEndpointAccuracy,
	)
}

func (l *EvaluationLogger) DocumentSkipped(skip domain.SkippedDocument) {
	attrs := []any{"document", skip.Document, "reason", string(skip.Reason)}
	if skip.Detail != "" {
		attrs = append(attrs, "detail", skip.Detail)
	}
	if skip.RawOutput != "" {
		attrs = append(attrs, "raw_output_bytes", len(skip.RawOutput))
	}
	l.logger.Warn("document_skipped", attrs...)
}

// Observers fans evaluation events out to several observers.
type Observers []ports.EvaluationObserver

func (o Observers) DocumentScored(score domain.DocumentScore) {
	for _, observer := range o {
		observer.DocumentScored(score)
	}
}

func (o Observers) DocumentSkipped(skip domain.SkippedDocument) {
	for _, observer := range o {
		observer.DocumentSkipped(skip)
	}
}
