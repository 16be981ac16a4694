// ABOUTME: CLI command to run the HTTP API
// ABOUTME: Loads the docs folder at startup and optionally watches it for changes
package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/harper/coursemate/internal/core"
	"github.com/harper/coursemate/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr  string
	serveWatch bool
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for the course assistant.

The configured docs folder is indexed at startup. With --watch, files
added, changed, or removed in that folder are re-indexed while the server
runs.

Endpoints:
  POST   /api/query           {"query": "...", "session_id": "..."}
  GET    /api/courses
  DELETE /api/sessions/:id
  GET    /healthz`,
		Args: cobra.NoArgs,
		RunE: runServe,
		Example: `  coursemate serve
  coursemate serve --addr :9000 --watch`,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8000)")
	cmd.Flags().BoolVar(&serveWatch, "watch", false, "Re-index the docs folder when files change")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	addr := app.Config.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	if dir := app.Config.DocsDir; dir != "" {
		if _, err := app.RAG.AddCourseFolder(ctx, dir, false); err != nil {
			log.Warn("could not load docs folder", "dir", dir, "err", err)
		}
	}

	mode := gin.ReleaseMode
	if verbose {
		mode = gin.DebugMode
	}
	srv := server.New(app.RAG, mode)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, addr)
	})
	if serveWatch && app.Config.DocsDir != "" {
		watcher := core.NewWatcher(app.Config.DocsDir, app.RAG)
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
