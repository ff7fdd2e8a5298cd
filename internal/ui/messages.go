package ui

import "rind/internal/services"

// Scan messages carry the generation of the scan that produced them so
// that replies from a replaced scan can be told apart.
type scanResultMsg struct {
	gen    int
	result services.ScanResult
	err    error
}

type scanProgressMsg struct {
	gen      int
	channel  <-chan services.ScanProgress
	progress services.ScanProgress
}
