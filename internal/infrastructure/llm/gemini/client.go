package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/kirillkom/trialsage/internal/infrastructure/llm"
)

const DefaultModel = "gemini-1.5-flash"

// Models is the subset of *genai.Models the client calls.
type Models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models Models
	model  string
}

type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the public endpoint, mostly for tests and proxies.
	BaseURL    string
	HTTPClient *http.Client
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return NewWithModels(client.Models, cfg.Model), nil
}

func NewWithModels(models Models, model string) *Client {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Client{models: models, model: model}
}

func (c *Client) GenerateSummary(ctx context.Context, protocolText string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(llm.BuildSummaryPrompt(protocolText)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", mapError(err)
	}
	if resp == nil {
		return "", nil
	}
	return llm.CleanReply(resp.Text()), nil
}

func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.HTTPStatusError{
			Provider:   "gemini",
			Operation:  "generate",
			StatusCode: apiErr.Code,
			Status:     apiErr.Status,
			Body:       apiErr.Message,
		}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return mapError(*apiErrPtr)
	}
	return fmt.Errorf("gemini generate: %w", err)
}
