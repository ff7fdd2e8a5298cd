package app

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rind/internal/config"
	"rind/internal/fsys"
	"rind/internal/logging"
	"rind/internal/services"
)

func newTestApp() (*App, *bytes.Buffer) {
	memory := fsys.NewMemory("/work")
	memory.AddFile("cmd/main.go", 300, 20)
	memory.AddFile("cmd/main_test.go", 40, 22)
	memory.AddFile("docs/guide.md", 5000, 40)
	memory.AddFile(".cache/blob.go", 1, 1)
	memory.AddFile("go.mod", 50, 5)

	out := &bytes.Buffer{}
	return &App{Provider: memory, Logger: logging.NewNullLogger(), Out: out}, out
}

func lines(out *bytes.Buffer) []string {
	trimmed := strings.TrimSpace(out.String())
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func queryConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Path = "/work"
	return cfg
}

func TestQueryPrintsMatchesInTraversalOrder(t *testing.T) {
	a, out := newTestApp()
	cfg := queryConfig()
	ext := "go"
	cfg.Extension = &ext

	require.NoError(t, a.Query(context.Background(), cfg))
	assert.Equal(t, []string{"/work/cmd/main.go", "/work/cmd/main_test.go"}, lines(out))
}

func TestQueryHiddenEntries(t *testing.T) {
	a, out := newTestApp()
	cfg := queryConfig()
	ext := "go"
	cfg.Extension = &ext
	cfg.ShowHidden = true

	require.NoError(t, a.Query(context.Background(), cfg))
	assert.Equal(t, []string{"/work/cmd/main.go", "/work/cmd/main_test.go", "/work/.cache/blob.go"}, lines(out))
}

func TestQueryPredicatesCombineWithOr(t *testing.T) {
	a, out := newTestApp()
	cfg := queryConfig()
	size := int64(1000)
	created := int64(21)
	cfg.MinSize = &size
	cfg.CreatedAfter = &created

	require.NoError(t, a.Query(context.Background(), cfg))
	assert.Equal(t, []string{"/work/cmd/main_test.go", "/work/docs/guide.md"}, lines(out))
}

func TestQueryWithoutFiltersPrintsNothing(t *testing.T) {
	a, out := newTestApp()
	require.NoError(t, a.Query(context.Background(), queryConfig()))
	assert.Empty(t, out.String())
}

func TestQueryBuildFailure(t *testing.T) {
	a, out := newTestApp()
	a.Provider.(*fsys.Memory).FailReadDir("docs", errors.New("permission denied"))
	cfg := queryConfig()
	ext := "go"
	cfg.Extension = &ext

	err := a.Query(context.Background(), cfg)
	var buildErr *services.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "readdir", buildErr.Op)
	assert.Empty(t, out.String())
}

func TestQueryMissingRoot(t *testing.T) {
	a, _ := newTestApp()
	cfg := queryConfig()
	cfg.Path = "/nowhere"

	err := a.Query(context.Background(), cfg)
	var buildErr *services.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "stat", buildErr.Op)
}

func TestSnapshotThenQuery(t *testing.T) {
	a, out := newTestApp()
	output := filepath.Join(t.TempDir(), "work.json.gz")

	result, err := a.Snapshot(context.Background(), queryConfig(), output)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Files)
	assert.NotEmpty(t, result.ID)

	cfg := config.DefaultConfig()
	cfg.Snapshot = output
	ext := "md"
	cfg.Extension = &ext
	require.NoError(t, a.Query(context.Background(), cfg))
	assert.Equal(t, []string{"/work/docs/guide.md"}, lines(out))
}

func TestQueryCancelled(t *testing.T) {
	a, _ := newTestApp()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := queryConfig()
	ext := "go"
	cfg.Extension = &ext

	assert.ErrorIs(t, a.Query(ctx, cfg), context.Canceled)
}
