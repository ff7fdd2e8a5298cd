package services

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rind/internal/domain"
	"rind/internal/filter"
	"rind/internal/fsys"
)

func newMemoryTree() *fsys.Memory {
	m := fsys.NewMemory("/project")
	m.AddFile("main.go", 300, 20)
	m.AddFile("pkg/util.go", 50, 5)
	m.AddFile("pkg/deep/data.json", 2048, 40)
	m.AddFile("README", 10, 30)
	m.AddFile(".env", 1, 1)
	m.AddFile("node_modules/left-pad/index.js", 5, 5)
	return m
}

func names(nodes []*domain.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, node.Name())
	}
	return out
}

func TestFSScanner_BuildsTreeInDiscoveryOrder(t *testing.T) {
	scanner := NewFSScanner(newMemoryTree(), nil)

	result, err := scanner.Scan(context.Background(), ScanRequest{RootPath: "/project", Exclude: DefaultExclusions})
	require.NoError(t, err)
	require.NotNil(t, result.Root)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "/project", result.RootPath)
	assert.Equal(t, "/project", result.Root.Name())
	assert.True(t, result.Root.IsDir())

	top := result.Root.Children()
	assert.Equal(t, []string{"/project/main.go", "/project/pkg", "/project/README"}, names(top))

	mainGo := top[0]
	assert.Equal(t, "go", mainGo.Extension())
	assert.Equal(t, int64(300), mainGo.Size())
	assert.Equal(t, int64(20), mainGo.CreateTime())

	pkg := top[1]
	assert.True(t, pkg.IsDir())
	assert.Zero(t, pkg.Size())
	assert.Empty(t, pkg.Extension())
	assert.Equal(t, []string{"/project/pkg/util.go", "/project/pkg/deep"}, names(pkg.Children()))

	assert.Empty(t, top[2].Extension())
	assert.Equal(t, 4, result.Files)
	assert.Equal(t, 2, result.Dirs)
}

func TestFSScanner_ShowHiddenIncludesExclusions(t *testing.T) {
	scanner := NewFSScanner(newMemoryTree(), nil)

	result, err := scanner.Scan(context.Background(), ScanRequest{RootPath: "/project", ShowHidden: true, Exclude: DefaultExclusions})
	require.NoError(t, err)

	got := filter.Filter(result.Root, []filter.Predicate{filter.NewExtensionFilter("js"), filter.NewExtensionFilter("env")})
	assert.Equal(t, []string{"/project/.env", "/project/node_modules/left-pad/index.js"}, got)
}

func TestFSScanner_ShowHiddenKeepsUserExclusions(t *testing.T) {
	m := newMemoryTree()
	m.AddFile("vendor/lib.go", 7, 7)
	scanner := NewFSScanner(m, nil)

	exclude := append([]string{"vendor"}, DefaultExclusions...)
	result, err := scanner.Scan(context.Background(), ScanRequest{RootPath: "/project", ShowHidden: true, Exclude: exclude})
	require.NoError(t, err)

	got := filter.Filter(result.Root, []filter.Predicate{filter.NewExtensionFilter("go"), filter.NewExtensionFilter("js")})
	assert.Equal(t, []string{"/project/main.go", "/project/pkg/util.go", "/project/node_modules/left-pad/index.js"}, got)
}

func TestFSScanner_MaxDepth(t *testing.T) {
	scanner := NewFSScanner(newMemoryTree(), nil)

	result, err := scanner.Scan(context.Background(), ScanRequest{RootPath: "/project", MaxDepth: 1})
	require.NoError(t, err)

	for _, child := range result.Root.Children() {
		assert.Empty(t, child.Children(), child.Name())
	}

	result, err = scanner.Scan(context.Background(), ScanRequest{RootPath: "/project", MaxDepth: 2})
	require.NoError(t, err)
	got := filter.Filter(result.Root, []filter.Predicate{filter.NewExtensionFilter("json")})
	assert.Empty(t, got)
	got = filter.Filter(result.Root, []filter.Predicate{filter.NewExtensionFilter("go")})
	assert.Equal(t, []string{"/project/main.go", "/project/pkg/util.go"}, got)
}

func TestFSScanner_QueryScenario(t *testing.T) {
	m := fsys.NewMemory("/root")
	m.AddFile("d/b.txt", 200, 0)
	scanner := NewFSScanner(m, nil)

	result, err := scanner.Scan(context.Background(), ScanRequest{RootPath: "/root"})
	require.NoError(t, err)

	got := filter.Filter(result.Root, []filter.Predicate{filter.NewSizeFilter(99)})
	assert.Equal(t, []string{"/root/d/b.txt"}, got)
}

func TestFSScanner_ReadDirFailureAbortsBuild(t *testing.T) {
	m := newMemoryTree()
	m.FailReadDir("pkg/deep", fs.ErrPermission)
	scanner := NewFSScanner(m, nil)

	result, err := scanner.Scan(context.Background(), ScanRequest{RootPath: "/project"})
	require.Error(t, err)
	assert.Nil(t, result.Root)
	assert.ErrorIs(t, err, fs.ErrPermission)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "readdir", buildErr.Op)
	assert.Equal(t, "/project/pkg/deep", buildErr.Path)
}

func TestFSScanner_StatFailureAbortsBuild(t *testing.T) {
	m := newMemoryTree()
	boom := errors.New("io error")
	m.FailStat("pkg/util.go", boom)
	scanner := NewFSScanner(m, nil)

	result, err := scanner.Scan(context.Background(), ScanRequest{RootPath: "/project"})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, result.Root)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "stat", buildErr.Op)
}

func TestFSScanner_RootErrors(t *testing.T) {
	scanner := NewFSScanner(newMemoryTree(), nil)

	_, err := scanner.Scan(context.Background(), ScanRequest{RootPath: "/project/missing"})
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = scanner.Scan(context.Background(), ScanRequest{RootPath: "/project/main.go"})
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestFSScanner_Cancelled(t *testing.T) {
	scanner := NewFSScanner(newMemoryTree(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := scanner.Scan(ctx, ScanRequest{RootPath: "/project"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result.Root)
}

func TestFSScanner_OSProvider(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "lib.rs"), []byte("fn main() {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte("[package]"), 0o644))

	scanner := NewFSScanner(fsys.NewOS(), nil)
	result, err := scanner.Scan(context.Background(), ScanRequest{RootPath: dir})
	require.NoError(t, err)

	got := filter.Filter(result.Root, []filter.Predicate{filter.NewExtensionFilter("rs")})
	assert.Equal(t, []string{filepath.Join(dir, "src", "lib.rs")}, got)
	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 1, result.Dirs)
}

func TestFSScanner_ProgressChannelClosedAfterScan(t *testing.T) {
	scanner := NewFSScanner(newMemoryTree(), nil)
	_, err := scanner.Scan(context.Background(), ScanRequest{RootPath: "/project"})
	require.NoError(t, err)

	progress := scanner.Progress()
	require.NotNil(t, progress)
	var last ScanProgress
	for msg := range progress {
		last = msg
	}
	assert.True(t, last.Completed)
}
