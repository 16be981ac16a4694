// ABOUTME: CLI command for the interactive chat interface
// ABOUTME: Runs the Bubble Tea TUI over the RAG pipeline
package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/harper/coursemate/internal/tui"
	"github.com/spf13/cobra"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat about your courses in the terminal",
		Long: `Open an interactive chat about the indexed course materials.

Follow-up questions share a session so the assistant remembers recent
exchanges. Type /clear to start over and Ctrl+C to quit.`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	// Log lines would tear the alternate screen
	log.SetLevel(log.FatalLevel)

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	analytics, err := app.RAG.CourseAnalytics(ctx)
	if err != nil {
		return fmt.Errorf("loading courses: %w", err)
	}
	summary := fmt.Sprintf("%d courses indexed", analytics.TotalCourses)

	m := tui.New(ctx, app.RAG, summary)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	return nil
}
