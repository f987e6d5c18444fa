// Package report combines report sinks.
package report

import (
	"context"
	"errors"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/ports"
)

// MultiWriter writes the report to every sink and joins their errors.
type MultiWriter struct {
	writers []ports.ReportWriter
}

func NewMultiWriter(writers ...ports.ReportWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (m *MultiWriter) WriteReport(ctx context.Context, report *domain.EvaluationReport) error {
	var errs []error
	for _, w := range m.writers {
		if err := w.WriteReport(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
