package services

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"rind/internal/domain"
)

const snapshotVersion = 1
const maxSnapshotBytes = 256 * 1024 * 1024

// snapshotFile is the persisted form of a built tree. Saving lets one build
// be queried by later processes without walking the filesystem again.
type snapshotFile struct {
	Version  int           `json:"version"`
	ID       string        `json:"id"`
	RootPath string        `json:"rootPath"`
	SavedAt  time.Time     `json:"savedAt"`
	Root     snapshotEntry `json:"root"`
}

type snapshotEntry struct {
	Name       string          `json:"name"`
	Type       domain.NodeType `json:"type"`
	Size       int64           `json:"size,omitempty"`
	CreateTime int64           `json:"createTime"`
	Extension  string          `json:"extension,omitempty"`
	Children   []snapshotEntry `json:"children,omitempty"`
}

// SaveSnapshot writes result to path. A ".gz" suffix selects gzip compression.
func SaveSnapshot(path string, result ScanResult) error {
	if result.Root == nil {
		return ErrSnapshotEmptyInput
	}
	file := snapshotFile{
		Version:  snapshotVersion,
		ID:       result.ID,
		RootPath: result.RootPath,
		SavedAt:  time.Now().UTC(),
		Root:     entryFrom(result.Root),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rind-snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := encodeSnapshot(tmp, file, isCompressed(path)); err != nil {
		tmp.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// LoadSnapshot reads a snapshot written by SaveSnapshot and rebuilds the tree.
func LoadSnapshot(path string) (ScanResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ScanResult{}, err
	}
	if info.Size() > maxSnapshotBytes {
		return ScanResult{}, ErrSnapshotTooLarge
	}
	handle, err := os.Open(path)
	if err != nil {
		return ScanResult{}, err
	}
	defer handle.Close()

	var reader io.Reader = handle
	if isCompressed(path) {
		gz, err := gzip.NewReader(handle)
		if err != nil {
			return ScanResult{}, fmt.Errorf("open snapshot: %w", err)
		}
		defer gz.Close()
		reader = gz
	}
	data, err := io.ReadAll(io.LimitReader(reader, maxSnapshotBytes+1))
	if err != nil {
		return ScanResult{}, err
	}
	if len(data) > maxSnapshotBytes {
		return ScanResult{}, ErrSnapshotTooLarge
	}

	var stored snapshotFile
	if err := json.Unmarshal(data, &stored); err != nil {
		return ScanResult{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if stored.Version != snapshotVersion {
		return ScanResult{}, fmt.Errorf("%w: %d", ErrSnapshotVersion, stored.Version)
	}
	if stored.Root.Type != domain.NodeDir {
		return ScanResult{}, fmt.Errorf("snapshot root %s: %w", stored.Root.Name, ErrNotDirectory)
	}

	result := ScanResult{ID: stored.ID, RootPath: stored.RootPath}
	root, err := stored.Root.toNode(&result)
	if err != nil {
		return ScanResult{}, err
	}
	result.Root = root
	return result, nil
}

func encodeSnapshot(w io.Writer, file snapshotFile, compress bool) error {
	if !compress {
		return json.NewEncoder(w).Encode(file)
	}
	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(file); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

func entryFrom(node *domain.Node) snapshotEntry {
	entry := snapshotEntry{
		Name:       node.Name(),
		Type:       node.Type(),
		Size:       node.Size(),
		CreateTime: node.CreateTime(),
		Extension:  node.Extension(),
	}
	for _, child := range node.Children() {
		entry.Children = append(entry.Children, entryFrom(child))
	}
	return entry
}

// toNode rebuilds through AddChild so a malformed document cannot produce a
// file with children.
func (entry snapshotEntry) toNode(counts *ScanResult) (*domain.Node, error) {
	node := domain.NewNode(entry.Name, entry.Type == domain.NodeDir, entry.Size, entry.Extension, entry.CreateTime)
	for _, childEntry := range entry.Children {
		child, err := childEntry.toNode(counts)
		if err != nil {
			return nil, err
		}
		if err := node.AddChild(child); err != nil {
			return nil, fmt.Errorf("snapshot entry %s: %w", childEntry.Name, err)
		}
		if child.IsDir() {
			counts.Dirs++
		} else {
			counts.Files++
		}
	}
	return node, nil
}

func isCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
