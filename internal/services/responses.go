package services

import (
	"time"

	"rind/internal/domain"
)

// ScanResult carries a built tree. Root is nil when the scan failed.
type ScanResult struct {
	ID       string
	RootPath string
	Root     *domain.Node
	Files    int
	Dirs     int
	Duration time.Duration
}
