// ABOUTME: MCP command starts the Model Context Protocol server
// ABOUTME: Lets LLM agents like Claude search and ask about courses via stdio
package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/coursemate/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs coursemate as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to search course content, read outlines, and
ask answered questions via stdio.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  coursemate mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "coursemate": {
  #       "command": "coursemate",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("error closing storage", "err", err)
		}
	}()

	server := mcpserver.NewMCPServer("coursemate", buildInfo.Version)
	mcp.RegisterTools(server, app.RAG.Registry(), app.RAG)

	log.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}
	return nil
}
