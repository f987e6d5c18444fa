package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"

	"github.com/kirillkom/trialsage/internal/core/domain"
)

type extractorFake struct {
	text  string
	err   error
	calls []string
}

func (f *extractorFake) Extract(_ context.Context, doc domain.SourceDocument) (string, error) {
	f.calls = append(f.calls, doc.Name)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type generatorFake struct {
	reply   string
	replies map[string]string
	errs    map[string]error
	err     error
	prompts []string
}

func (f *generatorFake) GenerateSummary(_ context.Context, text string) (string, error) {
	f.prompts = append(f.prompts, text)
	if err, ok := f.errs[text]; ok {
		return "", err
	}
	if f.err != nil {
		return "", f.err
	}
	if reply, ok := f.replies[text]; ok {
		return reply, nil
	}
	return f.reply, nil
}

type corpusFake struct {
	ids        []string
	listErr    error
	references map[string]string
	texts      map[string]string
}

func (f *corpusFake) ListDocuments(context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.ids, nil
}

func (f *corpusFake) LoadReference(_ context.Context, id string) (*domain.StructuredSummary, error) {
	raw, ok := f.references[id]
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "load reference", errors.New(id))
	}
	return domain.ParseSummary(raw)
}

func (f *corpusFake) LoadProtocolText(_ context.Context, id string) (string, error) {
	text, ok := f.texts[id]
	if !ok {
		return "", domain.WrapError(domain.ErrDocumentNotFound, "load protocol text", errors.New(id))
	}
	return text, nil
}

type reportWriterFake struct {
	reports []*domain.EvaluationReport
	err     error
}

func (f *reportWriterFake) WriteReport(_ context.Context, report *domain.EvaluationReport) error {
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, report)
	return nil
}

type observerFake struct {
	scored  []string
	skipped []domain.SkipReason
	events  []string
}

func (f *observerFake) DocumentScored(score domain.DocumentScore) {
	f.scored = append(f.scored, score.Document)
	f.events = append(f.events, "scored:"+score.Document)
}

func (f *observerFake) DocumentSkipped(skip domain.SkippedDocument) {
	f.skipped = append(f.skipped, skip.Reason)
	f.events = append(f.events, "skipped:"+skip.Document)
}

type storageFake struct {
	files   map[string][]byte
	openErr map[string]error
	saveErr error
}

func newStorageFake() *storageFake {
	return &storageFake{files: map[string][]byte{}, openErr: map[string]error{}}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.files[key] = b
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err, ok := f.openErr[key]; ok {
		return nil, err
	}
	b, ok := f.files[key]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *storageFake) List(context.Context) ([]string, error) {
	names := make([]string, 0, len(f.files)+len(f.openErr))
	for name := range f.files {
		names = append(names, name)
	}
	for name := range f.openErr {
		if _, ok := f.files[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
