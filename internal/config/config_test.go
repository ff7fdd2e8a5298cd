package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rind/internal/domain"
	"rind/internal/filter"
)

func TestParseSize(t *testing.T) {
	cases := map[string]int64{
		"0":      0,
		"99":     99,
		"-1":     -1,
		"10KB":   10000,
		"1KiB":   1024,
		"1.5MiB": 1572864,
		" 2MB ":  2000000,
	}
	for input, want := range cases {
		got, err := ParseSize(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, bad := range []string{"", "ten", "5 parsecs"} {
		_, err := ParseSize(bad)
		assert.ErrorIs(t, err, ErrInvalidOption, bad)
	}
}

func TestParseTime(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Unix()
	cases := map[string]int64{
		"1700000000":           1700000000,
		"2024-03-01":           day,
		"2024-03-01T00:00:00Z": day,
		"2024-03-01T00:00:00":  day,
	}
	for input, want := range cases {
		got, err := ParseTime(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseTime("yesterday")
	assert.ErrorIs(t, err, ErrInvalidOption)
}

func TestPredicatesOrderAndOptionality(t *testing.T) {
	assert.Empty(t, DefaultConfig().Predicates())

	ext := "go"
	size := int64(100)
	created := int64(5)
	config := Config{Extension: &ext, MinSize: &size, CreatedAfter: &created}

	assert.Equal(t, []filter.Predicate{
		filter.NewExtensionFilter("go"),
		filter.NewSizeFilter(100),
		filter.NewDateFilter(5),
	}, config.Predicates())

	onlyDate := Config{CreatedAfter: &created}
	assert.Equal(t, []filter.Predicate{filter.NewDateFilter(5)}, onlyDate.Predicates())
}

func TestLoadConfigMissingDefaultIsDefaults(t *testing.T) {
	t.Setenv("RIND_CONFIG", filepath.Join(t.TempDir(), "none.yaml"))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfigExplicitMissingIsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadConfigMergesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
path: /srv
extension: rs
min_size: 1KiB
created_after: "2024-03-01"
show_hidden: true
max_depth: 3
exclude: [target]
theme: light
sort_mode: size
log_level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv", config.Path)
	require.NotNil(t, config.Extension)
	assert.Equal(t, "rs", *config.Extension)
	require.NotNil(t, config.MinSize)
	assert.Equal(t, int64(1024), *config.MinSize)
	require.NotNil(t, config.CreatedAfter)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Unix(), *config.CreatedAfter)
	assert.True(t, config.ShowHidden)
	assert.Equal(t, 3, config.MaxDepth)
	assert.Equal(t, []string{"target"}, config.Exclude)
	assert.Equal(t, "light", config.Theme)
	assert.Equal(t, domain.SortBySize, config.SortMode)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"size":  "min_size: lots\n",
		"time":  "created_after: soon\n",
		"depth": "max_depth: -2\n",
		"theme": "theme: neon\n",
		"yaml":  "path: [unclosed\n",
		"level": "log_level: loud\n",
		"sort":  "sort_mode: random\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := LoadConfig(path)
		assert.Error(t, err, name)
	}
}

func TestSaveConfigKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rind", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("extension: go\n"), 0o644))

	config := DefaultConfig()
	config.Theme = "light"
	config.ShowHidden = true
	config.SortMode = domain.SortByName
	require.NoError(t, SaveConfig(path, config))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "light", loaded.Theme)
	assert.True(t, loaded.ShowHidden)
	assert.Equal(t, domain.SortByName, loaded.SortMode)
	require.NotNil(t, loaded.Extension)
	assert.Equal(t, "go", *loaded.Extension)
}

func newFlagCommand() (*cobra.Command, *Flags) {
	cmd := &cobra.Command{Use: "rind", RunE: func(*cobra.Command, []string) error { return nil }}
	return cmd, BindFlags(cmd)
}

func TestFlagsOverrideOnlyChanged(t *testing.T) {
	cmd, flags := newFlagCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-e", "md", "--min-size", "2KB", "-v"}))

	base := DefaultConfig()
	base.ShowHidden = true
	config, err := flags.Apply(cmd, []string{"docs"}, base)
	require.NoError(t, err)

	assert.Equal(t, "docs", config.Path)
	require.NotNil(t, config.Extension)
	assert.Equal(t, "md", *config.Extension)
	require.NotNil(t, config.MinSize)
	assert.Equal(t, int64(2000), *config.MinSize)
	assert.Nil(t, config.CreatedAfter)
	assert.True(t, config.ShowHidden)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestFlagsEmptyExtensionIsAnOption(t *testing.T) {
	cmd, flags := newFlagCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--extension="}))

	config, err := flags.Apply(cmd, nil, DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, config.Extension)
	assert.Equal(t, "", *config.Extension)
	assert.Equal(t, ".", config.Path)
}

func TestFlagsInvalidValues(t *testing.T) {
	cmd, flags := newFlagCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--created-after", "never"}))
	_, err := flags.Apply(cmd, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidOption)

	cmd, flags = newFlagCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--sort", "random"}))
	_, err = flags.Apply(cmd, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidOption)

	cmd, flags = newFlagCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--max-depth", "-1"}))
	_, err = flags.Apply(cmd, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidOption)
}
