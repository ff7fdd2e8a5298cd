package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"rind/internal/domain"
	"rind/internal/filter"
	"rind/internal/logging"
)

var ErrInvalidOption = errors.New("invalid option")

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseSize accepts a plain byte count ("1024", "-1") or a humanized size
// ("10KB", "1.5MiB").
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty size", ErrInvalidOption)
	}
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return n, nil
	}
	bytes, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: size %q", ErrInvalidOption, value)
	}
	if bytes > math.MaxInt64 {
		return 0, fmt.Errorf("%w: size %q out of range", ErrInvalidOption, value)
	}
	return int64(bytes), nil
}

// ParseTime accepts Unix seconds, RFC 3339, or a YYYY-MM-DD date (UTC) and
// returns Unix seconds.
func ParseTime(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty time", ErrInvalidOption)
	}
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return n, nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Unix(), nil
		}
	}
	return 0, fmt.Errorf("%w: time %q", ErrInvalidOption, value)
}

// Predicates turns the configured filter options into a predicate set:
// extension, then min-size, then created-after.
func (config Config) Predicates() []filter.Predicate {
	predicates := []filter.Predicate{}
	if config.Extension != nil {
		predicates = append(predicates, filter.NewExtensionFilter(*config.Extension))
	}
	if config.MinSize != nil {
		predicates = append(predicates, filter.NewSizeFilter(*config.MinSize))
	}
	if config.CreatedAfter != nil {
		predicates = append(predicates, filter.NewDateFilter(*config.CreatedAfter))
	}
	return predicates
}

func (config Config) Validate() error {
	if config.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth %d is negative", ErrInvalidOption, config.MaxDepth)
	}
	switch strings.ToLower(config.Theme) {
	case "dark", "light":
	default:
		return fmt.Errorf("%w: theme %q", ErrInvalidOption, config.Theme)
	}
	switch config.SortMode {
	case domain.SortByFound, domain.SortByName, domain.SortBySize, domain.SortByCreated:
	default:
		return fmt.Errorf("%w: sort mode %q", ErrInvalidOption, config.SortMode)
	}
	if _, err := logging.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return nil
}
