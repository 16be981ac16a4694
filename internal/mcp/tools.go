// ABOUTME: MCP tool registration for the course assistant server
// ABOUTME: Exposes the retrieval tools directly plus ask_courses for full answered queries
package mcp

import (
	"context"

	"github.com/harper/coursemate/internal/core"
	"github.com/harper/coursemate/internal/models"
	"github.com/harper/coursemate/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Tool names served only over MCP
const (
	AskToolName         = "ask_courses"
	ListCoursesToolName = "list_courses"
)

// Asker answers questions through the full pipeline
type Asker interface {
	Query(ctx context.Context, text, sessionID string) (*core.QueryResult, error)
	CourseAnalytics(ctx context.Context) (models.CourseAnalytics, error)
}

// RegisterTools registers every registry tool and the pipeline tools with the server
func RegisterTools(server *mcpserver.MCPServer, registry *tools.Registry, rag Asker) *Handlers {
	handlers := &Handlers{registry: registry, rag: rag}

	// Retrieval tools share their definitions with the model-facing registry
	for _, t := range registry.Tools() {
		server.AddTool(t.Definition(), handlers.RegistryTool(t.Definition().Name))
	}

	server.AddTool(mcp.Tool{
		Name:        AskToolName,
		Description: "Ask a question about the indexed course materials. Returns an answer with its sources. Pass session_id to continue a conversation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question about course content or structure",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session id returned by an earlier ask_courses call",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskCourses)

	server.AddTool(mcp.Tool{
		Name:        ListCoursesToolName,
		Description: "List the titles of every indexed course.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListCourses)

	return handlers
}
