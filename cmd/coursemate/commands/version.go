// ABOUTME: Version command reporting the binary build and the index schema it expects
// ABOUTME: Prints text or JSON per --format; falls back to module build info for go install builds
package commands

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/harper/coursemate/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

// BuildInfo identifies the running binary. The index schema version is included
// because a database written by a newer schema cannot be opened by an older binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Schema    int    `json:"index_schema"`
	GoVersion string `json:"go_version"`
}

var buildInfo = BuildInfo{Version: "dev", Commit: "none", Date: "unknown"}

// SetBuildInfo records the values stamped in by the release build. Empty fields keep
// their defaults; a dev version picks up the module version when there is one.
func SetBuildInfo(info BuildInfo) {
	if info.Version != "" {
		buildInfo.Version = info.Version
	}
	if info.Commit != "" {
		buildInfo.Commit = info.Commit
	}
	if info.Date != "" {
		buildInfo.Date = info.Date
	}
	if buildInfo.Version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			buildInfo.Version = bi.Main.Version
		}
	}
}

func currentBuild() BuildInfo {
	info := buildInfo
	info.Schema = sqlite.SchemaVersion
	info.GoVersion = runtime.Version()
	return info
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show build and index schema versions",
		Long:  `Show the coursemate release, commit, build date, and the index schema version its database uses.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := currentBuild()
			out := cmd.OutOrStdout()
			if wantJSON() {
				return writeJSON(out, info)
			}
			fmt.Fprintf(out, "coursemate %s (%s, built %s)\n", info.Version, info.Commit, info.Date)
			fmt.Fprintf(out, "index schema v%d, %s\n", info.Schema, info.GoVersion)
			return nil
		},
	}
}
