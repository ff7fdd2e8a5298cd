package fsys

import (
	"fmt"
	"os"
	"path/filepath"
)

// OS implements Provider for the host filesystem.
type OS struct{}

func NewOS() *OS {
	return &OS{}
}

func (p *OS) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, filepath.Join(path, entry.Name()))
	}
	return paths, nil
}

func (p *OS) Stat(path string) (Info, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Info{}, err
	}
	created, err := birthTime(path, info)
	if err != nil {
		return Info{}, fmt.Errorf("creation time: %w", err)
	}
	result := Info{
		Name:       info.Name(),
		IsDir:      info.IsDir(),
		CreateTime: clampNonNegative(created),
	}
	if !result.IsDir {
		result.Size = clampNonNegative(info.Size())
	}
	return result, nil
}

func clampNonNegative(value int64) int64 {
	if value < 0 {
		return 0
	}
	return value
}
