// ABOUTME: Root command and global flags for the coursemate CLI
// ABOUTME: Configures logging levels and loads configuration for every subcommand
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harper/coursemate/internal/config"
	"github.com/harper/coursemate/internal/core"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Output formats for --format
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

var (
	verbose    bool
	quiet      bool
	configPath string
	format     string
)

const banner = `
 ██████╗ ██████╗ ██╗   ██╗██████╗ ███████╗███████╗███╗   ███╗ █████╗ ████████╗███████╗
██╔════╝██╔═══██╗██║   ██║██╔══██╗██╔════╝██╔════╝████╗ ████║██╔══██╗╚══██╔══╝██╔════╝
██║     ██║   ██║██║   ██║██████╔╝███████╗█████╗  ██╔████╔██║███████║   ██║   █████╗
██║     ██║   ██║██║   ██║██╔══██╗╚════██║██╔══╝  ██║╚██╔╝██║██╔══██║   ██║   ██╔══╝
╚██████╗╚██████╔╝╚██████╔╝██║  ██║███████║███████╗██║ ╚═╝ ██║██║  ██║   ██║   ███████╗
 ╚═════╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚══════╝╚══════╝╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚══════╝`

// NewRootCmd creates the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coursemate",
		Short: "Ask questions about your course materials",
		Long: banner + `

Coursemate indexes course documents and answers questions about them.
The language model decides when to search lesson content or fetch a
course outline, and every answer comes with its sources.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet cannot be used together")
			}
			switch format {
			case FormatAuto, FormatText, FormatJSON:
			default:
				return fmt.Errorf("unknown --format %q (want auto, text, or json)", format)
			}
			setupLogging()
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $COURSEMATE_CONFIG)")
	cmd.PersistentFlags().StringVar(&format, "format", FormatAuto, "Output format: auto, text, or json")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewServeCmd(),
		NewIngestCmd(),
		NewAskCmd(),
		NewCoursesCmd(),
		NewChatCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func setupLogging() {
	log.SetOutput(os.Stderr)
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig reads .env, then the config file from --config or COURSEMATE_CONFIG
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	path := configPath
	if path == "" {
		path = os.Getenv("COURSEMATE_CONFIG")
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// openApp loads configuration and wires the pipeline
func openApp(ctx context.Context) (*core.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	app, err := core.Bootstrap(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing: %w", err)
	}
	return app, nil
}
