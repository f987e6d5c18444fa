package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kirillkom/trialsage/internal/core/domain"
)

func TestEvaluateScoresAndSkips(t *testing.T) {
	corpus := &corpusFake{
		ids: []string{"doc1", "doc2", "doc3", "doc4", "doc5", "doc6"},
		references: map[string]string{
			"doc1": validReply,
			"doc2": validReply,
			"doc3": validReply,
			"doc4": validReply,
			"doc5": `["not", "an", "object"]`,
		},
		texts: map[string]string{
			"doc1": "text one",
			"doc3": "text three",
			"doc4": "text four",
			"doc5": "text five",
		},
	}
	generator := &generatorFake{
		reply: validReply,
		replies: map[string]string{
			"text three": "not json at all",
		},
		errs: map[string]error{
			"text four": errors.New("connection refused"),
		},
	}
	writer := &reportWriterFake{}
	observer := &observerFake{}

	uc := NewEvaluateUseCase(corpus, generator, writer, observer)
	report, err := uc.Evaluate(context.Background())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if report.DocumentsTotal != 6 || report.DocumentsScored != 1 {
		t.Fatalf("unexpected totals: %+v", report)
	}
	if report.IndividualScores[0].Document != "doc1" || report.AverageScores.ObjectiveRougeL != 1 {
		t.Fatalf("unexpected scores: %+v", report.IndividualScores)
	}

	wantReasons := []domain.SkipReason{
		domain.SkipMissingProtocolText,
		domain.SkipInvalidGeneratorOutput,
		domain.SkipNoGeneratorOutput,
		domain.SkipInvalidReference,
		domain.SkipMissingReference,
	}
	if len(report.SkippedDocuments) != len(wantReasons) {
		t.Fatalf("unexpected skipped documents: %+v", report.SkippedDocuments)
	}
	for i, want := range wantReasons {
		if report.SkippedDocuments[i].Reason != want {
			t.Fatalf("skip %d: got %s, want %s", i, report.SkippedDocuments[i].Reason, want)
		}
	}
	if report.SkippedDocuments[1].RawOutput != "not json at all" {
		t.Fatalf("expected raw output for invalid generator reply, got %+v", report.SkippedDocuments[1])
	}

	if len(generator.prompts) != 3 {
		t.Fatalf("generator should only be called when reference and text exist, got %v", generator.prompts)
	}
	if len(writer.reports) != 1 || writer.reports[0] != report {
		t.Fatalf("expected report to be persisted once")
	}
	if len(observer.scored) != 1 || len(observer.skipped) != 5 {
		t.Fatalf("unexpected observer calls: %+v", observer)
	}
	wantEvents := []string{"scored:doc1", "skipped:doc2", "skipped:doc3", "skipped:doc4", "skipped:doc5", "skipped:doc6"}
	if !reflect.DeepEqual(observer.events, wantEvents) {
		t.Fatalf("observer must follow corpus order: got %v, want %v", observer.events, wantEvents)
	}
}

type cancellingGenerator struct {
	generatorFake
	cancel context.CancelFunc
}

func (g *cancellingGenerator) GenerateSummary(ctx context.Context, text string) (string, error) {
	g.cancel()
	return g.generatorFake.GenerateSummary(ctx, text)
}

func TestEvaluateNotifiesEachDocumentBeforeCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	corpus := &corpusFake{
		ids:        []string{"doc1", "doc2", "doc3"},
		references: map[string]string{"doc1": validReply, "doc2": validReply, "doc3": validReply},
		texts:      map[string]string{"doc1": "one", "doc2": "two", "doc3": "three"},
	}
	generator := &cancellingGenerator{generatorFake: generatorFake{reply: validReply}, cancel: cancel}
	writer := &reportWriterFake{}
	observer := &observerFake{}

	report, err := NewEvaluateUseCase(corpus, generator, writer, observer).Evaluate(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !reflect.DeepEqual(observer.events, []string{"scored:doc1"}) {
		t.Fatalf("expected the finished document to be reported, got %v", observer.events)
	}
	if report == nil || report.DocumentsScored != 1 || report.DocumentsTotal != 1 {
		t.Fatalf("expected partial report, got %+v", report)
	}
	if len(writer.reports) != 0 {
		t.Fatalf("partial report must not be persisted")
	}
}

func TestEvaluateNothingScoredIsNotPersisted(t *testing.T) {
	corpus := &corpusFake{ids: []string{"doc1"}, references: map[string]string{"doc1": validReply}}
	writer := &reportWriterFake{}

	report, err := NewEvaluateUseCase(corpus, &generatorFake{reply: validReply}, writer, nil).Evaluate(context.Background())
	if !errors.Is(err, domain.ErrNoDocumentsScored) {
		t.Fatalf("expected ErrNoDocumentsScored, got %v", err)
	}
	if report == nil || report.AverageScores != nil {
		t.Fatalf("expected report without averages, got %+v", report)
	}
	if len(writer.reports) != 0 {
		t.Fatalf("report must not be persisted when nothing was scored")
	}
}

func TestEvaluateListAndWriteErrors(t *testing.T) {
	listErr := errors.New("permission denied")
	_, err := NewEvaluateUseCase(&corpusFake{listErr: listErr}, &generatorFake{}, &reportWriterFake{}, nil).Evaluate(context.Background())
	if !errors.Is(err, listErr) {
		t.Fatalf("expected list error, got %v", err)
	}

	corpus := &corpusFake{
		ids:        []string{"doc1"},
		references: map[string]string{"doc1": validReply},
		texts:      map[string]string{"doc1": "text"},
	}
	writeErr := errors.New("disk full")
	report, err := NewEvaluateUseCase(corpus, &generatorFake{reply: validReply}, &reportWriterFake{err: writeErr}, nil).Evaluate(context.Background())
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}
	if report == nil || report.DocumentsScored != 1 {
		t.Fatalf("expected scored report alongside write error, got %+v", report)
	}
}

func TestEvaluateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	corpus := &corpusFake{ids: []string{"doc1"}}
	generator := &generatorFake{reply: validReply}
	_, err := NewEvaluateUseCase(corpus, generator, &reportWriterFake{}, nil).Evaluate(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(generator.prompts) != 0 {
		t.Fatalf("generator must not be called after cancellation")
	}
}
