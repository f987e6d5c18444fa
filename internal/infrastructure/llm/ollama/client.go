package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/trialsage/internal/infrastructure/llm"
)

type Client struct {
	baseURL    string
	genModel   string
	httpClient *http.Client
}

func New(baseURL, genModel string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		genModel:   genModel,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateSummary asks the local model for a JSON summary of protocolText.
func (c *Client) GenerateSummary(ctx context.Context, protocolText string) (string, error) {
	reqBody := generateRequest{
		Model:  c.genModel,
		Prompt: llm.BuildSummaryPrompt(protocolText),
		Stream: false,
		Format: "json",
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return llm.CleanReply(response.Response), nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}
