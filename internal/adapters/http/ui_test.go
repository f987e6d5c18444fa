package httpadapter

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/trialsage/internal/config"
	"github.com/kirillkom/trialsage/internal/core/domain"
)

func TestUploadPageRendersForm(t *testing.T) {
	handler := newTestHandler(t, config.Config{}, Dependencies{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html, got %q", ct)
	}
	if !strings.Contains(res.Body.String(), `enctype="multipart/form-data"`) {
		t.Fatalf("expected upload form in page")
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown page, got %d", res.Code)
	}
}

func TestSummaryPageShowsSummaryAndDownload(t *testing.T) {
	result := okSummaryResult()
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 1 << 20}, Dependencies{
		Summarizer: &summarizerFake{result: result},
	})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, newUploadRequest(t, "/summaries", "protocol.v2.pdf", []byte("%PDF")))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	body := res.Body.String()
	href := "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(result.Formatted))
	for _, want := range []string{"Protocol text", "Assess efficacy of drug X", `download="protocol_summary.json"`, href} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page:\n%s", want, body)
		}
	}
}

func TestSummaryPageShowsRawOutputOnParseFailure(t *testing.T) {
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 1 << 20}, Dependencies{
		Summarizer: &summarizerFake{
			result: &domain.SummaryResult{Preview: "Protocol text", Raw: "Sorry, here is prose"},
			err:    fmt.Errorf("parse summary: %w", &domain.ParseError{Raw: "Sorry, here is prose", Err: errors.New("bad")}),
		},
	})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, newUploadRequest(t, "/summaries", "p.txt", []byte("text")))
	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Code)
	}
	body := res.Body.String()
	if !strings.Contains(body, "Raw model output") || !strings.Contains(body, "Sorry, here is prose") {
		t.Fatalf("expected raw output in page:\n%s", body)
	}
	if strings.Contains(body, "download=") {
		t.Fatalf("no download link expected on parse failure")
	}
}

func TestSummaryPageAsksToRetryOnNoOutput(t *testing.T) {
	handler := newTestHandler(t, config.Config{MaxUploadBytes: 1 << 20}, Dependencies{
		Summarizer: &summarizerFake{
			result: &domain.SummaryResult{Preview: "Protocol text"},
			err:    fmt.Errorf("parse summary: %w", domain.ErrNoOutput),
		},
	})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, newUploadRequest(t, "/summaries", "p.txt", []byte("text")))
	if !strings.Contains(res.Body.String(), noOutputNotice) {
		t.Fatalf("expected retry notice in page:\n%s", res.Body.String())
	}
}
