// Package mcpadapter exposes protocol summarization and summary scoring as
// MCP tools over stdio.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/trialsage/internal/core/domain"
	"github.com/kirillkom/trialsage/internal/core/ports"
	"github.com/kirillkom/trialsage/internal/core/scoring"
)

const (
	ToolSummarizeProtocol = "summarize_protocol"
	ToolScoreSummary      = "score_summary"
)

type Server struct {
	summarizer ports.ProtocolSummarizer
	mcp        *server.MCPServer
}

func NewServer(summarizer ports.ProtocolSummarizer, version string) *Server {
	s := &Server{
		summarizer: summarizer,
		mcp:        server.NewMCPServer("trialsage", version, server.WithToolCapabilities(false)),
	}

	s.mcp.AddTool(mcp.NewTool(ToolSummarizeProtocol,
		mcp.WithDescription("Summarize clinical trial protocol text into study objective, inclusion and exclusion criteria, primary and secondary endpoints."),
		mcp.WithString("protocol_text", mcp.Required(), mcp.Description("Full protocol text")),
	), s.handleSummarize)

	s.mcp.AddTool(mcp.NewTool(ToolScoreSummary,
		mcp.WithDescription("Score a generated protocol summary against a reference summary. Both arguments are JSON objects encoded as strings."),
		mcp.WithString("generated_json", mcp.Required(), mcp.Description("Generated summary JSON")),
		mcp.WithString("reference_json", mcp.Required(), mcp.Description("Reference summary JSON")),
	), s.handleScore)

	return s
}

// Serve runs the stdio transport until ctx is cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func (s *Server) handleSummarize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("protocol_text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.summarizer.SummarizeText(ctx, text)
	if err != nil {
		if raw, ok := domain.RawOutput(err); ok {
			return mcp.NewToolResultError(fmt.Sprintf("%v\nraw output:\n%s", err, raw)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result.Formatted), nil
}

func (s *Server) handleScore(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	generatedRaw, err := req.RequireString("generated_json")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	referenceRaw, err := req.RequireString("reference_json")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	generated, err := domain.ParseSummary(generatedRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generated_json: %v", err)), nil
	}
	reference, err := domain.ParseSummary(referenceRaw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reference_json: %v", err)), nil
	}

	encoded, err := json.MarshalIndent(scoring.ScoreSummary(generated, reference), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode scores: %w", err)
	}
	return mcp.NewToolResultText(string(encoded)), nil
}
