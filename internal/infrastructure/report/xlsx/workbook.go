// Package xlsx renders evaluation reports as Excel workbooks.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/ports"
)

const (
	DefaultName    = "summary_report.xlsx"
	AveragesSheet  = "Averages"
	DocumentsSheet = "Documents"
	SkippedSheet   = "Skipped"
)

var scoreColumns = []string{
	"objective_rougeL",
	"inclusion_accuracy",
	"exclusion_accuracy",
	"primary_endpoint_accuracy",
	"secondary_endpoint_accuracy",
}

type Writer struct {
	storage ports.ObjectStorage
	name    string
}

func New(storage ports.ObjectStorage, name string) *Writer {
	if name == "" {
		name = DefaultName
	}
	return &Writer{storage: storage, name: name}
}

func (w *Writer) WriteReport(ctx context.Context, report *domain.EvaluationReport) error {
	var buf bytes.Buffer
	if err := Render(&buf, report); err != nil {
		return err
	}
	if err := w.storage.Save(ctx, w.name, &buf); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Render writes report as a workbook with an averages sheet, one row per
// scored document and one row per skipped document.
func Render(out io.Writer, report *domain.EvaluationReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", AveragesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeAverages(f, report); err != nil {
		return err
	}
	if err := writeDocuments(f, report); err != nil {
		return err
	}
	if err := writeSkipped(f, report); err != nil {
		return err
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeAverages(f *excelize.File, report *domain.EvaluationReport) error {
	rows := [][]any{
		{"metric", "value"},
		{"documents_total", report.DocumentsTotal},
		{"documents_scored", report.DocumentsScored},
	}
	if report.AverageScores != nil {
		for i, value := range scoreValues(*report.AverageScores) {
			rows = append(rows, []any{scoreColumns[i], value})
		}
	}
	return setRows(f, AveragesSheet, rows)
}

func writeDocuments(f *excelize.File, report *domain.EvaluationReport) error {
	if _, err := f.NewSheet(DocumentsSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", DocumentsSheet, err)
	}
	header := []any{"document"}
	for _, column := range scoreColumns {
		header = append(header, column)
	}
	rows := [][]any{header}
	for _, score := range report.IndividualScores {
		row := []any{score.Document}
		for _, value := range scoreValues(score.FieldScores) {
			row = append(row, value)
		}
		rows = append(rows, row)
	}
	return setRows(f, DocumentsSheet, rows)
}

func writeSkipped(f *excelize.File, report *domain.EvaluationReport) error {
	if len(report.SkippedDocuments) == 0 {
		return nil
	}
	if _, err := f.NewSheet(SkippedSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", SkippedSheet, err)
	}
	rows := [][]any{{"document", "reason", "detail"}}
	for _, skip := range report.SkippedDocuments {
		rows = append(rows, []any{skip.Document, string(skip.Reason), skip.Detail})
	}
	return setRows(f, SkippedSheet, rows)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func scoreValues(s domain.FieldScores) []float64 {
	return []float64{
		s.ObjectiveRougeL,
		s.InclusionAccuracy,
		s.ExclusionAccuracy,
		s.PrimaryEndpointAccuracy,
		s.SecondaryEndpointAccuracy,
	}
}
