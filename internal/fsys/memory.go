package fsys

import (
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

var errNotDir = errors.New("not a directory")

type memoryEntry struct {
	info     Info
	children []string
	readErr  error
	statErr  error
}

// Memory implements Provider over an in-memory tree. Children are listed in
// the order they were added. Paths use forward slashes.
type Memory struct {
	entries map[string]*memoryEntry
	root    string
}

// NewMemory creates an empty tree whose root directory is root.
func NewMemory(root string) *Memory {
	root = path.Clean(filepath.ToSlash(root))
	m := &Memory{
		entries: make(map[string]*memoryEntry),
		root:    root,
	}
	m.entries[root] = &memoryEntry{info: Info{Name: path.Base(root), IsDir: true}}
	return m
}

func (m *Memory) Root() string { return m.root }

// AddFile adds a file, creating missing parent directories.
func (m *Memory) AddFile(name string, size int64, createTime int64) string {
	return m.add(name, Info{Size: size, CreateTime: createTime})
}

// AddDir adds an empty directory, creating missing parents.
func (m *Memory) AddDir(name string, createTime int64) string {
	return m.add(name, Info{IsDir: true, CreateTime: createTime})
}

// FailReadDir makes ReadDir(name) return err.
func (m *Memory) FailReadDir(name string, err error) {
	if entry, ok := m.entries[m.resolve(name)]; ok {
		entry.readErr = err
	}
}

// FailStat makes Stat(name) return err.
func (m *Memory) FailStat(name string, err error) {
	if entry, ok := m.entries[m.resolve(name)]; ok {
		entry.statErr = err
	}
}

func (m *Memory) ReadDir(name string) ([]string, error) {
	abs := m.resolve(name)
	entry, ok := m.entries[abs]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: abs, Err: fs.ErrNotExist}
	}
	if !entry.info.IsDir {
		return nil, &fs.PathError{Op: "readdir", Path: abs, Err: errNotDir}
	}
	if entry.readErr != nil {
		return nil, &fs.PathError{Op: "readdir", Path: abs, Err: entry.readErr}
	}
	return append([]string{}, entry.children...), nil
}

func (m *Memory) Stat(name string) (Info, error) {
	abs := m.resolve(name)
	entry, ok := m.entries[abs]
	if !ok {
		return Info{}, &fs.PathError{Op: "lstat", Path: abs, Err: fs.ErrNotExist}
	}
	if entry.statErr != nil {
		return Info{}, &fs.PathError{Op: "lstat", Path: abs, Err: entry.statErr}
	}
	return entry.info, nil
}

func (m *Memory) add(name string, info Info) string {
	abs := m.resolve(name)
	info.Name = path.Base(abs)
	if existing, ok := m.entries[abs]; ok {
		existing.info = info
		return abs
	}
	m.ensureDirectoriesExist(abs)
	m.entries[abs] = &memoryEntry{info: info}
	parent := m.entries[path.Dir(abs)]
	parent.children = append(parent.children, abs)
	return abs
}

func (m *Memory) ensureDirectoriesExist(abs string) {
	dir := path.Dir(abs)
	if dir == abs {
		return
	}
	if _, ok := m.entries[dir]; ok {
		return
	}
	m.ensureDirectoriesExist(dir)
	m.entries[dir] = &memoryEntry{info: Info{Name: path.Base(dir), IsDir: true}}
	if parentPath := path.Dir(dir); parentPath != dir {
		parent := m.entries[parentPath]
		parent.children = append(parent.children, dir)
	}
}

func (m *Memory) resolve(name string) string {
	name = filepath.ToSlash(name)
	if !strings.HasPrefix(name, "/") && name != m.root && !strings.HasPrefix(name, m.root+"/") {
		name = path.Join(m.root, name)
	}
	return path.Clean(name)
}
