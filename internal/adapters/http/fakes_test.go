package httpadapter

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/trialsage/internal/config"
	"github.com/kirillkom/trialsage/internal/core/domain"
)

type summarizerFake struct {
	result *domain.SummaryResult
	err    error
	docs   []domain.SourceDocument
}

func (f *summarizerFake) SummarizeDocument(_ context.Context, doc domain.SourceDocument) (*domain.SummaryResult, error) {
	f.docs = append(f.docs, doc)
	return f.result, f.err
}

func (f *summarizerFake) SummarizeText(_ context.Context, text string) (*domain.SummaryResult, error) {
	return f.result, f.err
}

type reportReaderFake struct {
	report *domain.EvaluationReport
	err    error
}

func (f *reportReaderFake) ReadReport(context.Context) (*domain.EvaluationReport, error) {
	return f.report, f.err
}

func newTestHandler(t *testing.T, cfg config.Config, deps Dependencies) http.Handler {
	t.Helper()
	if deps.Summarizer == nil {
		deps.Summarizer = &summarizerFake{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	router, err := NewRouter(cfg, deps)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return router.Handler()
}

func newUploadRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
