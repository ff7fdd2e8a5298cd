package services

import (
	"context"
	"time"

	"rind/internal/logging"
)

// SnapshotScanner serves a tree saved with SaveSnapshot. The request's
// hidden, depth and exclusion settings were fixed when the snapshot was
// built and are ignored here.
type SnapshotScanner struct {
	path   string
	logger *logging.Logger
}

func NewSnapshotScanner(path string, logger *logging.Logger) *SnapshotScanner {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &SnapshotScanner{path: path, logger: logger}
}

func (scanner *SnapshotScanner) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return ScanResult{}, err
	}
	result, err := LoadSnapshot(scanner.path)
	if err != nil {
		scanner.logger.Error("load snapshot %s: %v", scanner.path, err)
		return ScanResult{RootPath: req.RootPath, Duration: time.Since(start)}, err
	}
	result.Duration = time.Since(start)
	scanner.logger.Info("loaded snapshot %s (%s): %d files, %d directories", scanner.path, result.RootPath, result.Files, result.Dirs)
	return result, nil
}
