package services

type ScanRequest struct {
	RootPath   string
	ShowHidden bool
	// MaxDepth limits descent; 0 means unlimited, 1 lists only the root's children.
	MaxDepth int
	// Exclude lists base names to skip. ShowHidden lifts only the
	// DefaultExclusions among them.
	Exclude []string
}
