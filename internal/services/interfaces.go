package services

import "context"

// Scanner produces a fully built tree for a root path. A tree is only
// returned when the whole build succeeded.
type Scanner interface {
	Scan(ctx context.Context, req ScanRequest) (ScanResult, error)
}

// ProgressProvider is implemented by scanners that report progress while a
// scan runs. The channel is replaced at the start of every scan and closed
// when it ends.
type ProgressProvider interface {
	Progress() <-chan ScanProgress
}
