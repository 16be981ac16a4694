// ABOUTME: Entry point for the coursemate binary
// ABOUTME: Stamps release build values into the CLI and exits non-zero on command errors
package main

import (
	"fmt"
	"os"

	"github.com/harper/coursemate/cmd/coursemate/commands"
)

// Overridden at release time with -ldflags "-X main.version=... -X main.commit=... -X main.date=..."
var (
	version string
	commit  string
	date    string
)

func main() {
	commands.SetBuildInfo(commands.BuildInfo{Version: version, Commit: commit, Date: date})

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "coursemate:", err)
		os.Exit(1)
	}
}
