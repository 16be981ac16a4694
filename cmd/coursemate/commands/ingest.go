// ABOUTME: CLI command to index a folder of course documents
// ABOUTME: Skips unchanged documents unless --clear rebuilds the index
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestClear bool

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [dir]",
		Short: "Index a folder of course documents",
		Long: `Index every .txt and .md course document in a folder.

Documents already indexed from the same path with the same content are
skipped. Documents that fail to parse are reported and the rest continue.
The folder defaults to the configured docs directory.

Examples:
  coursemate ingest ./docs
  coursemate ingest --clear ./docs`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().BoolVar(&ingestClear, "clear", false, "Remove all indexed courses before ingesting")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	dir := app.Config.DocsDir
	if len(args) > 0 {
		dir = args[0]
	}

	summary, err := app.RAG.AddCourseFolder(ctx, dir, ingestClear)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", dir, err)
	}

	if wantJSON() {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Indexed %d courses (%d chunks), %d unchanged, %d failed\n",
			summary.Courses, summary.Chunks, summary.Skipped, summary.Failed)
	}
	return nil
}
