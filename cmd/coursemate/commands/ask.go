// ABOUTME: CLI command to ask a single question
// ABOUTME: Prints the answer with its sources and the session id for follow-ups
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askSession string

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the indexed courses",
		Long: `Ask one question about the indexed course materials.

Sessions live only as long as the process, so --session is mostly useful
with the HTTP server or the chat command.

Examples:
  coursemate ask "What does lesson 1 of Intro to MCP cover?"
  coursemate ask --format json "Outline the MCP course"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&askSession, "session", "", "Session id to continue")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("no question provided")
	}

	ctx, stop := signalContext()
	defer stop()

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	res, err := app.RAG.Query(ctx, question, askSession)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if wantJSON() {
		return writeJSON(out, res)
	}
	fmt.Fprintln(out, res.Answer)
	writeSources(out, res.Sources)
	if verbose {
		fmt.Fprintf(out, "\nSession: %s\n", res.SessionID)
	}
	return nil
}
