package services

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rind/internal/domain"
	"rind/internal/fsys"
	"rind/internal/logging"
)

// DefaultExclusions are skipped unless hidden entries are requested. Other
// excluded names are skipped either way.
var DefaultExclusions = []string{".git", "node_modules"}

// FSScanner builds a tree by walking a fsys.Provider depth first. Children
// are attached in the order the provider lists them; metadata for the
// entries of one directory is read by a bounded pool of workers.
type FSScanner struct {
	mu       sync.RWMutex
	provider fsys.Provider
	logger   *logging.Logger
	progress chan ScanProgress
	workers  int
}

func NewFSScanner(provider fsys.Provider, logger *logging.Logger) *FSScanner {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &FSScanner{
		provider: provider,
		logger:   logger,
		workers:  maxInt(2, runtime.NumCPU()),
	}
}

func (scanner *FSScanner) Progress() <-chan ScanProgress {
	scanner.mu.RLock()
	defer scanner.mu.RUnlock()
	return scanner.progress
}

func (scanner *FSScanner) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	start := time.Now()
	root := cleanPath(req.RootPath)
	result := ScanResult{ID: uuid.NewString(), RootPath: root}

	progress := make(chan ScanProgress, 64)
	scanner.setProgress(progress)
	defer close(progress)

	scanner.logger.Debug("scan %s started for %s", result.ID, root)

	info, err := scanner.provider.Stat(root)
	if err != nil {
		return scanner.fail(result, start, &BuildError{Op: "stat", Path: root, Err: err})
	}
	if !info.IsDir {
		return scanner.fail(result, start, &BuildError{Op: "open", Path: root, Err: ErrNotDirectory})
	}

	w := &walk{
		provider:   scanner.provider,
		progress:   progress,
		workers:    scanner.workers,
		showHidden: req.ShowHidden,
		maxDepth:   req.MaxDepth,
		exclusions: toSet(req.Exclude),
	}
	rootNode := domain.NewNode(root, true, 0, "", info.CreateTime)
	if err := w.visit(ctx, root, rootNode, 1); err != nil {
		return scanner.fail(result, start, err)
	}

	result.Root = rootNode
	result.Files = w.files
	result.Dirs = w.dirs
	result.Duration = time.Since(start)
	progressNonBlocking(progress, ScanProgress{Path: root, Scanned: w.scanned, Completed: true})
	scanner.logger.Info("scanned %s: %d files, %d directories in %s", root, w.files, w.dirs, result.Duration.Round(time.Millisecond))
	return result, nil
}

func (scanner *FSScanner) fail(result ScanResult, start time.Time, err error) (ScanResult, error) {
	result.Duration = time.Since(start)
	scanner.logger.Error("scan %s failed: %v", result.ID, err)
	return result, err
}

func (scanner *FSScanner) setProgress(progress chan ScanProgress) {
	scanner.mu.Lock()
	defer scanner.mu.Unlock()
	scanner.progress = progress
}

type walk struct {
	provider   fsys.Provider
	progress   chan<- ScanProgress
	workers    int
	showHidden bool
	maxDepth   int
	exclusions map[string]struct{}

	scanned int64
	files   int
	dirs    int
}

func (w *walk) visit(ctx context.Context, path string, parent *domain.Node, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	listed, err := w.provider.ReadDir(path)
	if err != nil {
		return &BuildError{Op: "readdir", Path: path, Err: err}
	}

	paths := make([]string, 0, len(listed))
	for _, child := range listed {
		if w.skip(filepath.Base(child)) {
			continue
		}
		paths = append(paths, child)
	}

	infos, err := w.statAll(ctx, paths)
	if err != nil {
		return err
	}

	for i, childPath := range paths {
		info := infos[i]
		var node *domain.Node
		if info.IsDir {
			node = domain.NewNode(childPath, true, 0, "", info.CreateTime)
			w.dirs++
		} else {
			node = domain.NewNode(childPath, false, info.Size, domain.ExtensionOf(childPath), info.CreateTime)
			w.files++
		}
		if err := parent.AddChild(node); err != nil {
			return &BuildError{Op: "attach", Path: childPath, Err: err}
		}

		w.scanned++
		if w.scanned%50 == 0 {
			progressNonBlocking(w.progress, ScanProgress{Path: path, Scanned: w.scanned, Current: childPath})
		}

		if info.IsDir && (w.maxDepth <= 0 || depth < w.maxDepth) {
			if err := w.visit(ctx, childPath, node, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// statAll reads metadata for paths concurrently; results keep input order.
func (w *walk) statAll(ctx context.Context, paths []string) ([]fsys.Info, error) {
	infos := make([]fsys.Info, len(paths))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(w.workers)
	for i, childPath := range paths {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			info, err := w.provider.Stat(childPath)
			if err != nil {
				return &BuildError{Op: "stat", Path: childPath, Err: err}
			}
			infos[i] = info
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

func (w *walk) skip(name string) bool {
	_, excluded := w.exclusions[name]
	if !w.showHidden {
		return excluded || isHidden(name)
	}
	return excluded && !isDefaultExclusion(name)
}

func isDefaultExclusion(name string) bool {
	for _, value := range DefaultExclusions {
		if value == name {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func cleanPath(path string) string {
	if path == "" {
		return "."
	}
	return filepath.Clean(path)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
