// ABOUTME: Standalone entry point for the course assistant HTTP API
// ABOUTME: Loads configuration, indexes the docs folder, and serves until interrupted
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/harper/coursemate/internal/config"
	"github.com/harper/coursemate/internal/core"
	"github.com/harper/coursemate/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := core.Bootstrap(ctx, cfg)
	if err != nil {
		log.Fatal("failed to initialize", "err", err)
	}
	defer func() { _ = app.Close() }()

	if _, err := app.RAG.AddCourseFolder(ctx, cfg.DocsDir, false); err != nil {
		log.Warn("could not load docs folder", "dir", cfg.DocsDir, "err", err)
	}

	if err := server.New(app.RAG, gin.ReleaseMode).Run(ctx, cfg.Addr); err != nil {
		log.Error("server error", "err", err)
		os.Exit(1)
	}
}
