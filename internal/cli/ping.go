package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/ease/dialect"
	"github.com/syssam/ease/dialect/sql"
)

// PingOptions holds flags for the ping command.
type PingOptions struct {
	*RootOptions
	Dialect string
	URL     string
	Timeout time.Duration
}

// NewPingCommand creates the ping command.
func NewPingCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PingOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check the connection to the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.ping(cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "database driver name (postgres|pgx|mysql|sqlite)")
	cmd.Flags().StringVar(&opts.URL, "url", "", "database URL")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 5*time.Second, "connection timeout")
	return cmd
}

func (o *PingOptions) ping(cmd *cobra.Command) error {
	name := resolveString(o.Dialect, o.Config.Database.Dialect)
	url := resolveString(o.URL, o.Config.Database.URL)
	// Driver names such as "pgx" are accepted for their dialect.
	if !dialect.Supported(sql.NewConn(name, nil).Dialect()) {
		return ConfigError(fmt.Sprintf("unsupported dialect %q", name), nil)
	}
	if url == "" {
		return ConfigError("database.url is required", nil)
	}
	drv, err := sql.Open(name, url)
	if err != nil {
		return ConfigError("opening database", err)
	}
	defer drv.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
	defer cancel()
	if err := drv.PingContext(ctx); err != nil {
		return GeneralError("connecting to database", err)
	}
	o.Logger.Debug("database reachable", "dialect", drv.Dialect())
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", drv.Dialect())
	return nil
}
