// ABOUTME: MCP tool handler implementations for the course assistant server
// ABOUTME: Registry tools run in their own execution so their citations are returned with the text
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/coursemate/internal/core"
	"github.com/harper/coursemate/internal/models"
	"github.com/harper/coursemate/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	registry *tools.Registry
	rag      Asker
}

// askResponse is the JSON body returned by ask_courses
type askResponse struct {
	Answer    string                  `json:"answer"`
	Sources   []models.SourceCitation `json:"sources"`
	SessionID string                  `json:"session_id"`
}

// RegistryTool returns a handler that runs the named registry tool
func (h *Handlers) RegistryTool(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := request.Params.Arguments.(map[string]any)
		if !ok {
			args = map[string]any{}
		}

		exec := h.registry.NewExecution()
		text, err := exec.Execute(ctx, name, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(withSources(text, exec.CollectSources())), nil
	}
}

// AskCourses handles the ask_courses tool
func (h *Handlers) AskCourses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}
	sessionID := request.GetString("session_id", "")

	res, err := h.rag.Query(ctx, question, sessionID)
	if err != nil {
		if errors.Is(err, core.ErrEmptyQuery) {
			return mcp.NewToolResultError("question cannot be empty"), nil
		}
		log.Error("ask_courses failed", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(askResponse{Answer: res.Answer, Sources: res.Sources, SessionID: res.SessionID})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ListCourses handles the list_courses tool
func (h *Handlers) ListCourses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	analytics, err := h.rag.CourseAnalytics(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list courses: %v", err)), nil
	}

	responseJSON, err := json.Marshal(analytics)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// withSources appends a citation list to tool text
func withSources(text string, sources []models.SourceCitation) string {
	if len(sources) == 0 {
		return text
	}

	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\nSources:")
	for _, s := range sources {
		if link := s.Link(); link != "" {
			fmt.Fprintf(&b, "\n- %s (%s)", s.Text, link)
		} else {
			fmt.Fprintf(&b, "\n- %s", s.Text)
		}
	}
	return b.String()
}
