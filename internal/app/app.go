// Package app wires scanning, filtering and output together for the CLI.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"rind/internal/config"
	"rind/internal/filter"
	"rind/internal/fsys"
	"rind/internal/logging"
	"rind/internal/services"
	"rind/internal/state"
	"rind/internal/ui"
)

type App struct {
	Provider fsys.Provider
	Logger   *logging.Logger
	Out      io.Writer
}

// New returns an App over the operating system's filesystem.
func New(logger *logging.Logger, out io.Writer) *App {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &App{Provider: fsys.NewOS(), Logger: logger, Out: out}
}

// Query builds the tree for cfg (or loads cfg.Snapshot) and prints the name
// of every match, one per line, in traversal order.
func (a *App) Query(ctx context.Context, cfg config.Config) error {
	predicates := cfg.Predicates()
	if len(predicates) == 0 {
		a.Logger.Warn("no filters given (use --extension, --min-size or --created-after); nothing will match")
	}
	for _, predicate := range predicates {
		a.Logger.Debug("filter %v", predicate)
	}

	result, err := a.scanner(cfg).Scan(ctx, scanRequest(cfg))
	if err != nil {
		return err
	}

	names := filter.Filter(result.Root, predicates)
	a.Logger.Info("%d of %d entries matched", len(names), result.Root.Len())

	writer := bufio.NewWriter(a.Out)
	for _, name := range names {
		if _, err := fmt.Fprintln(writer, name); err != nil {
			return err
		}
	}
	return writer.Flush()
}

// Snapshot builds the tree for cfg.Path and saves it to output.
func (a *App) Snapshot(ctx context.Context, cfg config.Config, output string) (services.ScanResult, error) {
	scanner := services.NewFSScanner(a.Provider, a.Logger.Named("scan"))
	result, err := scanner.Scan(ctx, scanRequest(cfg))
	if err != nil {
		return result, err
	}
	if err := services.SaveSnapshot(output, result); err != nil {
		return result, fmt.Errorf("save snapshot %s: %w", output, err)
	}
	a.Logger.Info("snapshot %s of %s written to %s", result.ID, result.RootPath, output)
	return result, nil
}

// Browse runs the interactive view and stores its preferences in the config
// file at configPath when it exits.
func (a *App) Browse(ctx context.Context, cfg config.Config, configPath string) error {
	model := ui.NewModel(state.NewState(cfg), a.scanner(cfg), cfg)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("interactive view: %w", err)
	}
	if provider, ok := finalModel.(ui.ConfigProvider); ok {
		if err := config.SaveConfig(configPath, provider.ConfigSnapshot()); err != nil {
			a.Logger.Warn("saving preferences: %v", err)
		}
	}
	return nil
}

func (a *App) scanner(cfg config.Config) services.Scanner {
	if cfg.Snapshot != "" {
		return services.NewSnapshotScanner(cfg.Snapshot, a.Logger.Named("snapshot"))
	}
	return services.NewFSScanner(a.Provider, a.Logger.Named("scan"))
}

func scanRequest(cfg config.Config) services.ScanRequest {
	return services.ScanRequest{
		RootPath:   cfg.Path,
		ShowHidden: cfg.ShowHidden,
		MaxDepth:   cfg.MaxDepth,
		Exclude:    cfg.Exclude,
	}
}
