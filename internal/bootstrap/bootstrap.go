package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/trialsage/internal/config"
	"github.com/kirillkom/trialsage/internal/core/ports"
	"github.com/kirillkom/trialsage/internal/core/usecase"
	"github.com/kirillkom/trialsage/internal/infrastructure/corpus"
	"github.com/kirillkom/trialsage/internal/infrastructure/extractor"
	"github.com/kirillkom/trialsage/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/trialsage/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/trialsage/internal/infrastructure/llm"
	"github.com/kirillkom/trialsage/internal/infrastructure/llm/gemini"
	"github.com/kirillkom/trialsage/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/trialsage/internal/infrastructure/llm/openai"
	"github.com/kirillkom/trialsage/internal/infrastructure/report"
	"github.com/kirillkom/trialsage/internal/infrastructure/report/jsonfile"
	"github.com/kirillkom/trialsage/internal/infrastructure/report/xlsx"
	"github.com/kirillkom/trialsage/internal/infrastructure/resilience"
	"github.com/kirillkom/trialsage/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/trialsage/internal/observability/logging"
	"github.com/kirillkom/trialsage/internal/observability/metrics"
)

// Options controls what New wires. Commands that never call the model
// (preprocess, report conversion) leave WithGenerator false and need no
// provider credentials.
type Options struct {
	Service       string
	Logger        *slog.Logger
	Registry      *prometheus.Registry
	WithGenerator bool
}

type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry

	EvalMetrics *metrics.EvaluationMetrics
	Results     *localfs.Storage
	Reports     *jsonfile.Store

	PreprocessUC ports.ProtocolPreprocessor
	SummarizeUC  ports.ProtocolSummarizer
	EvaluateUC   ports.CorpusEvaluator
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	registry := opts.Registry
	if registry == nil {
		registry = metrics.NewRegistry()
	}
	service := opts.Service
	if service == "" {
		service = "trialsage"
	}

	rawStore, err := localfs.New(cfg.RawProtocolDir)
	if err != nil {
		return nil, fmt.Errorf("init raw protocol storage: %w", err)
	}
	textStore, err := localfs.New(cfg.ProcessedTextDir)
	if err != nil {
		return nil, fmt.Errorf("init processed text storage: %w", err)
	}
	goldStore, err := localfs.New(cfg.GoldStandardDir)
	if err != nil {
		return nil, fmt.Errorf("init gold standard storage: %w", err)
	}
	resultStore, err := localfs.New(cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("init results storage: %w", err)
	}

	pdfExtractor := pdf.NewExtractor()
	textExtractor := extractor.NewRouter(map[string]ports.TextExtractor{
		".txt": plaintext.NewExtractor(),
		".pdf": pdfExtractor,
	})

	evalMetrics := metrics.NewEvaluationMetrics(registry, service)
	reports := jsonfile.New(resultStore, jsonfile.DefaultName)

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: registry,

		EvalMetrics: evalMetrics,
		Results:     resultStore,
		Reports:     reports,

		PreprocessUC: usecase.NewPreprocessUseCase(rawStore, textStore, pdfExtractor),
	}

	if !opts.WithGenerator {
		return app, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	generator, err := newGuardedGenerator(ctx, cfg, logger, evalMetrics)
	if err != nil {
		return nil, err
	}

	var writer ports.ReportWriter = reports
	if cfg.ReportXLSXEnabled {
		writer = report.NewMultiWriter(reports, xlsx.New(resultStore, xlsx.DefaultName))
	}
	observers := logging.Observers{logging.NewEvaluationLogger(logger), evalMetrics}

	app.SummarizeUC = usecase.NewSummarizeUseCase(textExtractor, generator)
	app.EvaluateUC = usecase.NewEvaluateUseCase(corpus.New(goldStore, textStore), generator, writer, observers)
	return app, nil
}

func newGuardedGenerator(ctx context.Context, cfg config.Config, logger *slog.Logger, evalMetrics *metrics.EvaluationMetrics) (ports.SummaryGenerator, error) {
	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	executor := resilience.NewExecutor(resilience.GenerationPolicy(cfg.LLMRetryMaxAttempts, cfg.LLMBreakerEnabled),
		resilience.WithLogger(logger),
		resilience.WithStateObserver(evalMetrics.ObserveBreakerState),
	)

	return llm.NewGuardedGenerator(cfg.LLMProvider, provider, executor, llm.GuardOptions{
		RequestsPerMinute: cfg.LLMRequestsPerMinute,
		Timeout:           cfg.LLMTimeout(),
		Observer:          evalMetrics,
	}), nil
}

func newProvider(ctx context.Context, cfg config.Config) (ports.SummaryGenerator, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini provider: %w", err)
		}
		return client, nil
	case config.ProviderOpenAI:
		client, err := openai.New(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai provider: %w", err)
		}
		return client, nil
	case config.ProviderOllama:
		return ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.LLMTimeout()), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
