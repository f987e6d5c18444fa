package httpadapter

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"net/http"

	"github.com/kirillkom/trialsage/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const noOutputNotice = "The model returned no output. Please try again."

type resultPage struct {
	SourceName   string
	Preview      string
	Formatted    string
	DownloadName string
	DownloadHref template.URL
	Raw          string
	Notice       string
	Error        string
}

func (rt *Router) uploadPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	rt.renderPage(w, http.StatusOK, "index", nil)
}

func (rt *Router) summaryPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	doc, err := rt.readUpload(w, r)
	if err != nil {
		rt.renderPage(w, mapErrorToHTTPStatus(err), "result", resultPage{Error: err.Error()})
		return
	}

	result, err := rt.summarizer.SummarizeDocument(r.Context(), doc)
	rt.recordSummary(err)

	page := resultPage{SourceName: doc.Name}
	if result != nil {
		page.Preview = result.Preview
	}
	switch {
	case err == nil:
		page.Formatted = result.Formatted
		page.DownloadName = result.DownloadName
		page.DownloadHref = template.URL("data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(result.Formatted)))
	case domain.IsKind(err, domain.ErrNoOutput):
		page.Notice = noOutputNotice
	case domain.IsKind(err, domain.ErrInvalidOutput):
		page.Error = "The model reply is not a valid JSON summary."
		page.Raw, _ = domain.RawOutput(err)
	default:
		page.Error = err.Error()
	}

	status := http.StatusOK
	if err != nil {
		status = mapErrorToHTTPStatus(err)
	}
	rt.renderPage(w, status, "result", page)
}

func (rt *Router) renderPage(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		rt.logger.Error("render_page_failed", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
