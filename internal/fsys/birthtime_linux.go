//go:build linux

package fsys

import (
	"errors"
	"io/fs"

	"golang.org/x/sys/unix"
)

// birthTime prefers the statx birth time and falls back to the inode change
// time when the filesystem does not record one.
func birthTime(path string, info fs.FileInfo) (int64, error) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME|unix.STATX_CTIME, &stx)
	if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EPERM) {
		return info.ModTime().Unix(), nil
	}
	if err != nil {
		return 0, err
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		return stx.Btime.Sec, nil
	}
	if stx.Mask&unix.STATX_CTIME != 0 {
		return stx.Ctime.Sec, nil
	}
	return info.ModTime().Unix(), nil
}
