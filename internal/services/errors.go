package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotDirectory       = errors.New("not a directory")
	ErrSnapshotVersion    = errors.New("unsupported snapshot version")
	ErrSnapshotTooLarge   = errors.New("snapshot too large")
	ErrSnapshotEmptyInput = errors.New("snapshot has no tree")
)

// BuildError reports the filesystem operation that aborted a build.
type BuildError struct {
	Op   string
	Path string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
