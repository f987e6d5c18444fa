package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

type Config struct {
	APIPort  string
	LogLevel string

	LLMProvider string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	OllamaURL      string
	OllamaGenModel string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	LLMTimeoutSeconds    int
	LLMRequestsPerMinute int
	LLMRetryMaxAttempts  int
	LLMBreakerEnabled    bool

	RawProtocolDir   string
	ProcessedTextDir string
	GoldStandardDir  string
	ResultsDir       string

	ReportXLSXEnabled bool

	APIRateLimitRPS       float64
	APIRateLimitBurst     int
	APIMaxInFlight        int
	APIBackpressureWaitMS int
	MaxUploadBytes        int64

	EvalMetricsPort string
}

func (c Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

func (c Config) APIBackpressureWait() time.Duration {
	return time.Duration(c.APIBackpressureWaitMS) * time.Millisecond
}

// Options locate the optional config files. Empty paths fall back to
// TRIALSAGE_CONFIG and ".env".
type Options struct {
	ConfigPath string
	DotEnvPath string
}

// Load reads configuration from, lowest to highest precedence: defaults, the
// YAML file, the .env file and the process environment. The .env file never
// overrides variables already set in the environment.
func Load(opts Options) (Config, error) {
	src, err := newSource(opts)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIPort:  src.str("API_PORT", "8080"),
		LogLevel: src.str("LOG_LEVEL", "info"),

		LLMProvider: strings.ToLower(src.str("LLM_PROVIDER", ProviderGemini)),

		GeminiAPIKey:  src.str("GEMINI_API_KEY", ""),
		GeminiModel:   src.str("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL: src.str("GEMINI_BASE_URL", ""),

		OllamaURL:      src.str("OLLAMA_URL", "http://localhost:11434"),
		OllamaGenModel: src.str("OLLAMA_GEN_MODEL", "llama3.1:8b"),

		OpenAIAPIKey:  src.str("OPENAI_API_KEY", ""),
		OpenAIBaseURL: src.str("OPENAI_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenAIModel:   src.str("OPENAI_MODEL", "google/gemini-flash-1.5"),

		LLMTimeoutSeconds:    src.integer("LLM_TIMEOUT_SECONDS", 120),
		LLMRequestsPerMinute: src.integer("LLM_REQUESTS_PER_MINUTE", 0),
		LLMRetryMaxAttempts:  src.integer("LLM_RETRY_MAX_ATTEMPTS", 1),
		LLMBreakerEnabled:    src.boolean("LLM_BREAKER_ENABLED", true),

		RawProtocolDir:   src.str("RAW_PROTOCOL_DIR", "data_raw_protocols"),
		ProcessedTextDir: src.str("PROCESSED_TEXT_DIR", "data/processed_text"),
		GoldStandardDir:  src.str("GOLD_STANDARD_DIR", "data/golden_standard"),
		ResultsDir:       src.str("RESULTS_DIR", "results"),

		ReportXLSXEnabled: src.boolean("REPORT_XLSX_ENABLED", false),

		APIRateLimitRPS:       src.float("API_RATE_LIMIT_RPS", 5),
		APIRateLimitBurst:     src.integer("API_RATE_LIMIT_BURST", 10),
		APIMaxInFlight:        src.integer("API_MAX_IN_FLIGHT", 8),
		APIBackpressureWaitMS: src.integer("API_BACKPRESSURE_WAIT_MS", 250),
		MaxUploadBytes:        int64(src.integer("MAX_UPLOAD_BYTES", 20<<20)),

		EvalMetricsPort: src.str("EVAL_METRICS_PORT", ""),
	}
	return cfg, nil
}

// Validate rejects configurations the selected provider cannot run with.
func (c Config) Validate() error {
	var errs []error
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini provider"))
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required for the openai provider"))
		}
		if c.OpenAIModel == "" {
			errs = append(errs, errors.New("OPENAI_MODEL is required for the openai provider"))
		}
	case ProviderOllama:
		if c.OllamaURL == "" {
			errs = append(errs, errors.New("OLLAMA_URL is required for the ollama provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.LLMTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("LLM_TIMEOUT_SECONDS must be positive"))
	}
	if c.LLMRequestsPerMinute < 0 {
		errs = append(errs, errors.New("LLM_REQUESTS_PER_MINUTE must not be negative"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

type source struct {
	file   map[string]string
	dotenv map[string]string
}

func newSource(opts Options) (*source, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = os.Getenv("TRIALSAGE_CONFIG")
	}
	dotenvPath := opts.DotEnvPath
	if dotenvPath == "" {
		dotenvPath = ".env"
	}

	file, err := readYAML(configPath)
	if err != nil {
		return nil, err
	}
	dotenv, err := godotenv.Read(dotenvPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
		dotenv = map[string]string{}
	}
	return &source{file: file, dotenv: dotenv}, nil
}

// readYAML loads a flat mapping of config keys; keys are case-insensitive.
func readYAML(path string) (map[string]string, error) {
	out := map[string]string{}
	if path == "" {
		return out, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	for key, value := range raw {
		if value == nil {
			continue
		}
		out[strings.ToUpper(key)] = fmt.Sprint(value)
	}
	return out, nil
}

func (s *source) lookup(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := s.dotenv[key]; v != "" {
		return v
	}
	return s.file[key]
}

func (s *source) str(key, fallback string) string {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	return v
}

func (s *source) integer(key string, fallback int) int {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (s *source) float(key string, fallback float64) float64 {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func (s *source) boolean(key string, fallback bool) bool {
	v := s.lookup(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
