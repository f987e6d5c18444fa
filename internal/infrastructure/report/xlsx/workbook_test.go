package xlsx

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/infrastructure/storage/localfs"
)

func sampleReport() *domain.EvaluationReport {
	return &domain.EvaluationReport{
		AverageScores: &domain.FieldScores{ObjectiveRougeL: 0.5, InclusionAccuracy: 1},
		IndividualScores: []domain.DocumentScore{
			{Document: "doc1", FieldScores: domain.FieldScores{ObjectiveRougeL: 0.5, InclusionAccuracy: 1}},
		},
		SkippedDocuments: []domain.SkippedDocument{{Document: "doc2", Reason: domain.SkipNoGeneratorOutput, Detail: "timeout"}},
		DocumentsTotal:   2,
		DocumentsScored:  1,
	}
}

func TestRenderSheets(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport()); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	averages, err := f.GetRows(AveragesSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", AveragesSheet, err)
	}
	if len(averages) != 8 || averages[3][0] != "objective_rougeL" || averages[3][1] != "0.5" {
		t.Fatalf("unexpected averages sheet: %v", averages)
	}

	documents, err := f.GetRows(DocumentsSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", DocumentsSheet, err)
	}
	if len(documents) != 2 || documents[1][0] != "doc1" || documents[1][2] != "1" {
		t.Fatalf("unexpected documents sheet: %v", documents)
	}

	skipped, err := f.GetRows(SkippedSheet)
	if err != nil {
		t.Fatalf("GetRows(%s): %v", SkippedSheet, err)
	}
	if len(skipped) != 2 || skipped[1][1] != string(domain.SkipNoGeneratorOutput) {
		t.Fatalf("unexpected skipped sheet: %v", skipped)
	}
}

func TestWriterSavesWorkbook(t *testing.T) {
	dir := t.TempDir()
	storage, err := localfs.New(dir)
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	if err := New(storage, "").WriteReport(context.Background(), sampleReport()); err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultName)); err != nil {
		t.Fatalf("expected workbook on disk: %v", err)
	}
}
