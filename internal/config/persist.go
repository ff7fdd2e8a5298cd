package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rind/internal/domain"
	"rind/internal/services"
)

const (
	configDirName  = "rind"
	configFileName = "config.yaml"
)

var ErrConfigNotFound = errors.New("config file not found")

func DefaultConfig() Config {
	return Config{
		Path:     ".",
		Exclude:  append([]string(nil), services.DefaultExclusions...),
		Theme:    "dark",
		SortMode: domain.SortByFound,
		LogLevel: "warn",
	}
}

// ConfigPath honours RIND_CONFIG before the per-user config directory.
func ConfigPath() (string, error) {
	if path := os.Getenv("RIND_CONFIG"); path != "" {
		return path, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// LoadConfig merges the file at path over the defaults. With an empty path
// the default location is used and a missing file is not an error; an
// explicit path that does not exist returns ErrConfigNotFound.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	explicit := path != ""
	if !explicit {
		resolved, err := ConfigPath()
		if err != nil {
			return config, nil
		}
		path = resolved
	}
	stored, err := readFileConfig(path)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) && !explicit {
			return config, nil
		}
		return config, err
	}
	return mergeConfig(config, stored)
}

// SaveConfig stores interface preferences (theme, hidden entries, sort
// order) without touching the other keys of an existing file.
func SaveConfig(path string, config Config) error {
	if path == "" {
		resolved, err := ConfigPath()
		if err != nil {
			return err
		}
		path = resolved
	}
	stored, err := readFileConfig(path)
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return err
	}
	theme := config.Theme
	showHidden := config.ShowHidden
	sortMode := string(config.SortMode)
	stored.Theme = &theme
	stored.ShowHidden = &showHidden
	stored.SortMode = &sortMode

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(stored)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readFileConfig(path string) (fileConfig, error) {
	var stored fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return stored, ErrConfigNotFound
		}
		return stored, err
	}
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return stored, fmt.Errorf("parse %s: %w", path, err)
	}
	return stored, nil
}

func mergeConfig(base Config, stored fileConfig) (Config, error) {
	merged := base
	if stored.Path != nil {
		merged.Path = *stored.Path
	}
	if stored.Extension != nil {
		extension := *stored.Extension
		merged.Extension = &extension
	}
	if stored.MinSize != nil {
		size, err := ParseSize(*stored.MinSize)
		if err != nil {
			return base, fmt.Errorf("min_size: %w", err)
		}
		merged.MinSize = &size
	}
	if stored.CreatedAfter != nil {
		created, err := ParseTime(*stored.CreatedAfter)
		if err != nil {
			return base, fmt.Errorf("created_after: %w", err)
		}
		merged.CreatedAfter = &created
	}
	if stored.ShowHidden != nil {
		merged.ShowHidden = *stored.ShowHidden
	}
	if stored.MaxDepth != nil {
		merged.MaxDepth = *stored.MaxDepth
	}
	if stored.Exclude != nil {
		merged.Exclude = stored.Exclude
	}
	if stored.Theme != nil {
		merged.Theme = *stored.Theme
	}
	if stored.SortMode != nil {
		merged.SortMode = domain.SortMode(*stored.SortMode)
	}
	if stored.LogLevel != nil {
		merged.LogLevel = *stored.LogLevel
	}
	if stored.LogFile != nil {
		merged.LogFile = *stored.LogFile
	}
	if stored.LogJSON != nil {
		merged.LogJSON = *stored.LogJSON
	}
	return merged, merged.Validate()
}
