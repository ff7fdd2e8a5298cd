package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rind/internal/app"
	"rind/internal/config"
)

func newSnapshotCommand(flags *config.Flags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "snapshot <path>",
		Short: "Build the tree for path and save it for later queries",
		Long: `snapshot walks path once and writes the tree to a file. Query it later
with "rind --from FILE" without touching the filesystem again. A file name
ending in .gz is gzip-compressed.`,
		Args:         usageArgs(cobra.ExactArgs(1)),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("%w: --output is required", ErrUsage)
			}
			cfg, err := resolveConfig(cmd, flags, args)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer logger.Close()

			result, err := app.New(logger, cmd.OutOrStdout()).Snapshot(cmd.Context(), cfg, output)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s files, %s directories -> %s\n",
				result.RootPath, humanize.Comma(int64(result.Files)), humanize.Comma(int64(result.Dirs)), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Snapshot file to write (a .gz suffix compresses it)")
	flags.BindScanFlags(cmd)
	return cmd
}
