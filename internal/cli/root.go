package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rind/internal/app"
	"rind/internal/config"
	"rind/internal/logging"
	"rind/internal/ui"
)

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rind [path]",
		Short: "Find entries in a directory tree by extension, size or creation time",
		Long: `rind builds a tree of the directory at path (default ".") and prints every
entry, below the root, that matches at least one filter. A directory's
matching descendants are printed before the directory itself.

Filters (an entry matches if ANY of them accepts it):
  --extension/-e E       files whose extension is exactly E
  --min-size/-s N        entries larger than N bytes
  --created-after/-t T   entries created after T

With no filters nothing matches.

Exit Codes:
  0  - Success
  1  - Building the tree or writing results failed
  2  - Usage or configuration error
  3  - Panic or unexpected internal error`,
		Args:         usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage: true,
	}
	cmd.SetFlagErrorFunc(flagError)

	flags := config.BindFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, flags, args)
		if err != nil {
			return err
		}
		browse := cfg.Interactive && ui.CanRun()
		logger, err := newLogger(cfg, cmd.ErrOrStderr(), browse)
		if err != nil {
			return err
		}
		defer logger.Close()

		a := app.New(logger, cmd.OutOrStdout())
		if browse {
			return a.Browse(cmd.Context(), cfg, flags.ConfigPath())
		}
		if cfg.Interactive {
			logger.Warn("not running in a terminal; printing matches instead")
		}
		return a.Query(cmd.Context(), cfg)
	}

	cmd.AddCommand(newSnapshotCommand(flags))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// resolveConfig layers defaults, the config file and the command line.
func resolveConfig(cmd *cobra.Command, flags *config.Flags, args []string) (config.Config, error) {
	base, err := config.LoadConfig(flags.ConfigPath())
	if err != nil {
		return base, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	cfg, err := flags.Apply(cmd, args, base)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return cfg, nil
}

// newLogger logs to w unless quiet; the interactive view owns the terminal.
func newLogger(cfg config.Config, w io.Writer, quiet bool) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return logging.New(logging.Options{
		Name:   "rind",
		Level:  level,
		File:   cfg.LogFile,
		JSON:   cfg.LogJSON,
		Quiet:  quiet,
		Writer: w,
	}), nil
}
