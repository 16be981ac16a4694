// ABOUTME: Tool contract for capabilities the language model may invoke
// ABOUTME: Tools describe themselves with an MCP schema and return text plus optional citations
package tools

import (
	"context"

	"github.com/harper/coursemate/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is a named capability with a JSON-schema parameter description
type Tool interface {
	Definition() mcp.Tool
	Execute(ctx context.Context, args map[string]any) (Result, error)
}

// Result is the outcome of one tool execution.
// When TrackSources is set, Sources replaces the citations of the current query.
type Result struct {
	Content      string
	Sources      []models.SourceCitation
	TrackSources bool
}

// TextResult is a Result that leaves citations alone
func TextResult(content string) Result {
	return Result{Content: content}
}
