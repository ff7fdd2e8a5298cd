//go:build !linux

package fsys

import "io/fs"

func birthTime(path string, info fs.FileInfo) (int64, error) {
	return info.ModTime().Unix(), nil
}
