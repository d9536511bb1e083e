// Package mcptool exposes the summarize operation as a Model Context Protocol
// tool so agents can call the gateway over streamable HTTP at /mcp.
package mcptool

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matiasleandrokruk/summarygate/internal/domain/summarize"
)

const toolName = "summarize"

// Summarizer is the part of summarize.Service the tool needs.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (summarize.Response, error)
}

type summarizeInput struct {
	Text string `json:"text" jsonschema:"free-form text to summarize; at least 50 characters after trimming"`
}

type summarizeOutput struct {
	Summary string `json:"summary" jsonschema:"the generated summary"`
}

// NewServer builds an MCP server with a single summarize tool.
// Tool failures are reported to the client as tool errors, not protocol errors.
func NewServer(svc Summarizer, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "summarygate", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        toolName,
		Description: "Summarize free-form text with the local language model.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in summarizeInput) (*mcp.CallToolResult, summarizeOutput, error) {
		resp, err := svc.Summarize(ctx, in.Text)
		if err != nil {
			return nil, summarizeOutput{}, err
		}
		return nil, summarizeOutput{Summary: resp.Summary}, nil
	})

	return server
}

// NewHandler serves server over the streamable HTTP transport.
func NewHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
