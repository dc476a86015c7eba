package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
)

// versionInfo returns the version and commit, falling back to the module
// build information when they were not set at build time.
func versionInfo() (string, string) {
	version, commit := Version, Commit
	if version != "dev" {
		return version, commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			version = v
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && commit == "unknown" {
				commit = setting.Value[:min(7, len(setting.Value))]
			}
		}
	}
	return version, commit
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version, commit := versionInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "easegen %s (commit: %s) %s\n", version, commit, runtime.Version())
		},
	}
}
