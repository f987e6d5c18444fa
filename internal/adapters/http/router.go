package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirillkom/trialsage/internal/config"
	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/ports"
	"github.com/kirillkom/trialsage/internal/core/scoring"
	"github.com/kirillkom/trialsage/internal/observability/metrics"
)

const defaultMaxUploadBytes = 20 << 20

// Dependencies are the collaborators the router serves. Reports, Metrics and
// MetricsHandler are optional.
type Dependencies struct {
	Summarizer     ports.ProtocolSummarizer
	Reports        ports.ReportReader
	Metrics        *metrics.HTTPServerMetrics
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

type Router struct {
	cfg            config.Config
	summarizer     ports.ProtocolSummarizer
	reports        ports.ReportReader
	metrics        *metrics.HTTPServerMetrics
	metricsHandler http.Handler
	logger         *slog.Logger
	api            *apiContract
}

func NewRouter(cfg config.Config, deps Dependencies) (*Router, error) {
	if deps.Summarizer == nil {
		return nil, errors.New("summarizer is required")
	}
	api, err := loadAPIContract()
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Router{
		cfg:            cfg,
		summarizer:     deps.Summarizer,
		reports:        deps.Reports,
		metrics:        deps.Metrics,
		metricsHandler: deps.MetricsHandler,
		logger:         logger,
		api:            api,
	}, nil
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.uploadPage)
	mux.HandleFunc("/summaries", rt.summaryPage)
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/openapi.json", rt.openAPI)
	mux.HandleFunc("/v1/summaries", rt.createSummary)
	mux.HandleFunc("/v1/scores", rt.scoreSummary)
	mux.HandleFunc("/v1/reports/latest", rt.latestReport)
	if rt.metricsHandler != nil {
		mux.Handle("/metrics", rt.metricsHandler)
	}

	var onLimited func(string)
	if rt.metrics != nil {
		onLimited = rt.metrics.RecordRateLimited
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait())
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, onLimited)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) openAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rt.api.published)
}

type summaryResponse struct {
	Document     string                    `json:"document"`
	DownloadName string                    `json:"download_name"`
	Preview      string                    `json:"preview"`
	Summary      *domain.StructuredSummary `json:"summary"`
}

func (rt *Router) createSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	doc, err := rt.readUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := rt.summarizer.SummarizeDocument(r.Context(), doc)
	rt.recordSummary(err)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Document:     result.SourceName,
		DownloadName: result.DownloadName,
		Preview:      result.Preview,
		Summary:      result.Summary,
	})
}

type scoreRequest struct {
	Document  string                   `json:"document"`
	Generated domain.StructuredSummary `json:"generated"`
	Reference domain.StructuredSummary `json:"reference"`
}

func (rt *Router) scoreSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes))
	if err != nil {
		writeError(w, domain.WrapError(domain.ErrInvalidInput, "read score request", err))
		return
	}
	if err := rt.api.validateScoreRequest(body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid score request: %v", err)})
		return
	}

	var req scoreRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	writeJSON(w, http.StatusOK, domain.DocumentScore{
		Document:    req.Document,
		FieldScores: scoring.ScoreSummary(&req.Generated, &req.Reference),
	})
}

func (rt *Router) latestReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if rt.reports == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no report store configured"})
		return
	}

	report, err := rt.reports.ReadReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (rt *Router) readUpload(w http.ResponseWriter, r *http.Request) (domain.SourceDocument, error) {
	r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(rt.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.SourceDocument{}, fmt.Errorf("upload exceeds %d bytes: %w", rt.cfg.MaxUploadBytes, err)
		}
		return domain.SourceDocument{}, domain.WrapError(domain.ErrInvalidInput, "parse upload", err)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		return domain.SourceDocument{}, domain.WrapError(domain.ErrInvalidInput, "parse upload", errors.New("multipart field 'file' is required"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return domain.SourceDocument{}, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
	}
	return domain.SourceDocument{
		Name:    strings.TrimSpace(fileHeader.Filename),
		Content: content,
	}, nil
}

func (rt *Router) recordSummary(err error) {
	if rt.metrics != nil {
		rt.metrics.RecordSummary(summaryOutcome(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	payload := map[string]string{"error": err.Error()}
	if raw, ok := domain.RawOutput(err); ok {
		payload["raw_output"] = raw
	}
	writeJSON(w, mapErrorToHTTPStatus(err), payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
