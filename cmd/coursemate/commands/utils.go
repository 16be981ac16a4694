// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Output formatting, citation rendering, and signal-aware contexts
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/coursemate/internal/models"
)

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// wantJSON reports whether output should be JSON for the current --format
func wantJSON() bool {
	return format == FormatJSON
}

// writeJSON writes v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeSources prints citations as a bulleted list
func writeSources(w io.Writer, sources []models.SourceCitation) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSources:")
	for _, s := range sources {
		if link := s.Link(); link != "" {
			fmt.Fprintf(w, "  - %s (%s)\n", s.Text, link)
		} else {
			fmt.Fprintf(w, "  - %s\n", s.Text)
		}
	}
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
