package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags and the state shared by all commands.
type RootOptions struct {
	ConfigFile string
	Verbose    bool

	// Config and ConfigPath are set before any command runs.
	Config     *Config
	ConfigPath string
	Logger     *slog.Logger
}

// NewRootCommand creates the root command of easegen.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "easegen",
		Short: "Generate the accessor operations of flat records",
		Long: `easegen derives the complete grammar of get, update, delete and insert
operations of flat record types, and generates their Go clients.

Records are Go struct types marked with an //ease:record comment, or
declarations in YAML or JSON files.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			cfg, path, err := LoadConfig(opts.ConfigFile)
			if err != nil {
				return ConfigError("loading configuration", err)
			}
			opts.Config, opts.ConfigPath = cfg, path
			if path != "" {
				opts.Logger.Debug("config loaded", "path", path)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: auto-discover ease.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewOpsCommand(opts))
	cmd.AddCommand(NewDocsCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewPingCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// newLogger returns a text logger writing to w, at Debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs easegen with the process arguments and returns its exit code.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		PrintError(os.Stderr, err)
		return ExitCode(err)
	}
	return ExitSuccess
}
