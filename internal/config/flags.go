package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"rind/internal/domain"
)

// Flags holds the raw command-line values. Only flags the user actually set
// override the loaded configuration.
type Flags struct {
	configPath string

	extension    string
	minSize      string
	createdAfter string
	snapshot     string
	interactive  bool
	theme        string
	sortMode     string

	showHidden bool
	maxDepth   int
	exclude    []string

	verbose  bool
	logLevel string
	logFile  string
	logJSON  bool
}

// BindFlags registers the query and scan flags on cmd and the config and
// logging flags as persistent flags shared with its subcommands.
func BindFlags(cmd *cobra.Command) *Flags {
	f := &Flags{}
	flags := cmd.Flags()
	flags.StringVarP(&f.extension, "extension", "e", "", "Match files with this extension (without the dot)")
	flags.StringVarP(&f.minSize, "min-size", "s", "", "Match entries larger than this size (bytes, or e.g. 10KB, 2MiB)")
	flags.StringVarP(&f.createdAfter, "created-after", "t", "", "Match entries created after this time (Unix seconds, RFC 3339 or YYYY-MM-DD)")
	flags.StringVar(&f.snapshot, "from", "", "Query a saved snapshot instead of walking the filesystem")
	flags.BoolVarP(&f.interactive, "interactive", "i", false, "Browse matches in an interactive view")
	flags.StringVar(&f.theme, "theme", "", "Interactive view theme (dark, light)")
	flags.StringVar(&f.sortMode, "sort", "", "Interactive view order (found, name, size, created)")
	f.bindScanFlags(flags)

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&f.configPath, "config", "", "Config file (default: $RIND_CONFIG or the user config directory)")
	persistent.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	persistent.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	persistent.StringVar(&f.logFile, "log-file", "", "Also write logs to this file (rotated)")
	persistent.BoolVar(&f.logJSON, "log-json", false, "Write logs as JSON lines")
	return f
}

// BindScanFlags registers the tree-building flags on another command.
func (f *Flags) BindScanFlags(cmd *cobra.Command) {
	f.bindScanFlags(cmd.Flags())
}

func (f *Flags) bindScanFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&f.showHidden, "hidden", false, "Include hidden and excluded entries")
	flags.IntVarP(&f.maxDepth, "max-depth", "d", 0, "Limit directory depth (0 = unlimited)")
	flags.StringSliceVar(&f.exclude, "exclude", nil, "Directory or file names to skip")
}

// ConfigPath is the --config value; empty means the default location.
func (f *Flags) ConfigPath() string {
	return f.configPath
}

// Apply overlays the flags the user changed onto base. args[0], if present,
// is the search root.
func (f *Flags) Apply(cmd *cobra.Command, args []string, base Config) (Config, error) {
	config := base
	changed := cmd.Flags().Changed

	if len(args) > 0 {
		config.Path = args[0]
	}
	if changed("extension") {
		extension := f.extension
		config.Extension = &extension
	}
	if changed("min-size") {
		size, err := ParseSize(f.minSize)
		if err != nil {
			return base, fmt.Errorf("--min-size: %w", err)
		}
		config.MinSize = &size
	}
	if changed("created-after") {
		created, err := ParseTime(f.createdAfter)
		if err != nil {
			return base, fmt.Errorf("--created-after: %w", err)
		}
		config.CreatedAfter = &created
	}
	if changed("hidden") {
		config.ShowHidden = f.showHidden
	}
	if changed("max-depth") {
		config.MaxDepth = f.maxDepth
	}
	if changed("exclude") {
		config.Exclude = f.exclude
	}
	if changed("from") {
		config.Snapshot = f.snapshot
	}
	if changed("interactive") {
		config.Interactive = f.interactive
	}
	if changed("theme") {
		config.Theme = f.theme
	}
	if changed("sort") {
		config.SortMode = domain.SortMode(f.sortMode)
	}
	if changed("log-level") {
		config.LogLevel = f.logLevel
	}
	if f.verbose {
		config.LogLevel = "debug"
	}
	if changed("log-file") {
		config.LogFile = f.logFile
	}
	if changed("log-json") {
		config.LogJSON = f.logJSON
	}
	return config, config.Validate()
}
