package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kirillkom/trialsage/internal/core/domain"
)

func TestWriteSummaryPrintsFormattedJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	err := writeSummary(&out, &errOut, &domain.SummaryResult{Formatted: "{\n  \"a\": 1\n}"}, nil)
	if err != nil {
		t.Fatalf("writeSummary: %v", err)
	}
	if out.String() != "{\n  \"a\": 1\n}\n" || errOut.Len() != 0 {
		t.Fatalf("unexpected output %q / %q", out.String(), errOut.String())
	}
}

func TestWriteSummaryWarnsOnInvalidJSON(t *testing.T) {
	var out, errOut bytes.Buffer
	parseErr := fmt.Errorf("parse summary: %w", &domain.ParseError{Raw: "plain prose", Err: errors.New("bad")})

	if err := writeSummary(&out, &errOut, &domain.SummaryResult{Raw: "plain prose"}, parseErr); err != nil {
		t.Fatalf("writeSummary: %v", err)
	}
	if !strings.Contains(errOut.String(), "Warning") {
		t.Fatalf("expected warning, got %q", errOut.String())
	}
	if out.String() != "plain prose\n" {
		t.Fatalf("expected raw output, got %q", out.String())
	}
}

func TestWriteSummaryReturnsOtherErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	want := errors.New("provider down")
	if err := writeSummary(&out, &errOut, nil, want); !errors.Is(err, want) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestWriteReportSummary(t *testing.T) {
	var out bytes.Buffer
	err := writeReportSummary(&out, &domain.EvaluationReport{
		AverageScores:   &domain.FieldScores{ObjectiveRougeL: 0.5},
		DocumentsTotal:  3,
		DocumentsScored: 2,
	})
	if err != nil {
		t.Fatalf("writeReportSummary: %v", err)
	}
	for _, want := range []string{"Scored 2 of 3", `"objective_rougeL": 0.5`} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in %q", want, out.String())
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"preprocess", "summarize", "evaluate", "report", "mcp", "version"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Fatalf("expected %s subcommand, got %v (%v)", name, cmd, err)
		}
	}

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "trialsage ") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}
