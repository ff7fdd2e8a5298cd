// Package fsys is the boundary between the tree builder and a real or
// simulated filesystem. The builder only needs two operations: list the
// children of a directory and read the metadata of one entry.
//
// Implementations:
//   - OS: the host filesystem. Symlinks are reported as files and never followed.
//   - Memory: an in-memory tree for tests, preserving insertion order.
package fsys

// Info is the metadata the builder records for one entry.
type Info struct {
	Name       string
	IsDir      bool
	Size       int64
	CreateTime int64
}

// Provider lists and stats filesystem entries.
type Provider interface {
	// ReadDir returns the paths of the direct children of path, in the order
	// the provider discovered them.
	ReadDir(path string) ([]string, error)

	// Stat returns metadata for path without following symlinks.
	Stat(path string) (Info, error)
}
