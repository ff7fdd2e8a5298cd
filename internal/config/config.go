package config

import "rind/internal/domain"

// Config is the fully resolved run configuration: defaults, then the config
// file, then command-line flags.
type Config struct {
	Path string

	// Filter options; nil means the option was not given.
	Extension    *string
	MinSize      *int64
	CreatedAfter *int64

	ShowHidden bool
	MaxDepth   int
	Exclude    []string

	// Snapshot, when set, is queried instead of walking Path.
	Snapshot    string
	Interactive bool

	Theme    string
	SortMode domain.SortMode

	LogLevel string
	LogFile  string
	LogJSON  bool
}

// fileConfig mirrors the YAML file. Pointers distinguish absent keys from
// zero values; sizes and times stay strings so they accept human formats.
type fileConfig struct {
	Path         *string  `yaml:"path,omitempty"`
	Extension    *string  `yaml:"extension,omitempty"`
	MinSize      *string  `yaml:"min_size,omitempty"`
	CreatedAfter *string  `yaml:"created_after,omitempty"`
	ShowHidden   *bool    `yaml:"show_hidden,omitempty"`
	MaxDepth     *int     `yaml:"max_depth,omitempty"`
	Exclude      []string `yaml:"exclude,omitempty"`
	Theme        *string  `yaml:"theme,omitempty"`
	SortMode     *string  `yaml:"sort_mode,omitempty"`
	LogLevel     *string  `yaml:"log_level,omitempty"`
	LogFile      *string  `yaml:"log_file,omitempty"`
	LogJSON      *bool    `yaml:"log_json,omitempty"`
}
