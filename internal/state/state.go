package state

import (
	"sort"
	"strings"

	"rind/internal/config"
	"rind/internal/domain"
	"rind/internal/filter"
)

type Preferences struct {
	ShowHidden bool
	SortMode   domain.SortMode
	Theme      string
}

// State is one interactive query session: a built tree, the active filter
// options and the matches they produce.
type State struct {
	Path    string
	Root    *domain.Node
	Cursor  int
	Prefs   Preferences
	Files   int
	Dirs    int
	Matches []*domain.Node

	Extension    *string
	MinSize      *int64
	CreatedAfter *int64

	visible []*domain.Node
}

func NewState(cfg config.Config) *State {
	return &State{
		Path: cfg.Path,
		Prefs: Preferences{
			ShowHidden: cfg.ShowHidden,
			SortMode:   cfg.SortMode,
			Theme:      strings.ToLower(cfg.Theme),
		},
		Extension:    cfg.Extension,
		MinSize:      cfg.MinSize,
		CreatedAfter: cfg.CreatedAfter,
	}
}

// SetTree replaces the tree and recomputes matches.
func (appState *State) SetTree(root *domain.Node, files, dirs int) {
	appState.Root = root
	appState.Files = files
	appState.Dirs = dirs
	appState.Refresh()
}

func (appState *State) Predicates() []filter.Predicate {
	cfg := config.Config{
		Extension:    appState.Extension,
		MinSize:      appState.MinSize,
		CreatedAfter: appState.CreatedAfter,
	}
	return cfg.Predicates()
}

func (appState *State) Filtering() bool {
	return appState.Extension != nil || appState.MinSize != nil || appState.CreatedAfter != nil
}

func (appState *State) Refresh() {
	appState.Matches = filter.Matches(appState.Root, appState.Predicates())
	appState.resort()
}

func (appState *State) SetExtension(extension string) {
	extension = strings.TrimPrefix(strings.TrimSpace(extension), ".")
	appState.Extension = &extension
	appState.Refresh()
}

func (appState *State) SetMinSize(size int64) {
	appState.MinSize = &size
	appState.Refresh()
}

func (appState *State) SetCreatedAfter(created int64) {
	appState.CreatedAfter = &created
	appState.Refresh()
}

func (appState *State) ClearFilters() {
	appState.Extension = nil
	appState.MinSize = nil
	appState.CreatedAfter = nil
	appState.Refresh()
}

// VisibleMatches returns the matches in display order. SortByFound keeps
// traversal order.
func (appState *State) VisibleMatches() []*domain.Node {
	return appState.visible
}

func (appState *State) CurrentMatch() *domain.Node {
	if appState.Cursor < 0 || appState.Cursor >= len(appState.visible) {
		return nil
	}
	return appState.visible[appState.Cursor]
}

func (appState *State) MoveCursor(delta int) {
	appState.Cursor = clamp(appState.Cursor+delta, 0, len(appState.visible)-1)
}

func (appState *State) CursorTop() {
	appState.Cursor = 0
}

func (appState *State) CursorBottom() {
	appState.Cursor = maxInt(len(appState.visible)-1, 0)
}

func (appState *State) ToggleSortMode() domain.SortMode {
	switch appState.Prefs.SortMode {
	case domain.SortByFound:
		appState.Prefs.SortMode = domain.SortByName
	case domain.SortByName:
		appState.Prefs.SortMode = domain.SortBySize
	case domain.SortBySize:
		appState.Prefs.SortMode = domain.SortByCreated
	default:
		appState.Prefs.SortMode = domain.SortByFound
	}
	appState.resort()
	return appState.Prefs.SortMode
}

// ToggleShowHidden only flips the preference; hidden entries appear after the
// next scan.
func (appState *State) ToggleShowHidden() bool {
	appState.Prefs.ShowHidden = !appState.Prefs.ShowHidden
	return appState.Prefs.ShowHidden
}

func (appState *State) ToggleTheme() string {
	if appState.Prefs.Theme == "light" {
		appState.Prefs.Theme = "dark"
	} else {
		appState.Prefs.Theme = "light"
	}
	return appState.Prefs.Theme
}

// ApplyPreferences copies the session preferences onto cfg for saving.
func (appState *State) ApplyPreferences(cfg config.Config) config.Config {
	cfg.ShowHidden = appState.Prefs.ShowHidden
	cfg.SortMode = appState.Prefs.SortMode
	cfg.Theme = appState.Prefs.Theme
	return cfg
}

func (appState *State) resort() {
	visible := append([]*domain.Node(nil), appState.Matches...)
	var less func(a, b *domain.Node) bool
	switch appState.Prefs.SortMode {
	case domain.SortByName:
		less = func(a, b *domain.Node) bool { return a.Name() < b.Name() }
	case domain.SortBySize:
		less = func(a, b *domain.Node) bool { return a.Size() > b.Size() }
	case domain.SortByCreated:
		less = func(a, b *domain.Node) bool { return a.CreateTime() > b.CreateTime() }
	}
	if less != nil {
		sort.SliceStable(visible, func(i, j int) bool { return less(visible[i], visible[j]) })
	}
	appState.visible = visible
	appState.Cursor = clamp(appState.Cursor, 0, len(visible)-1)
}

func clamp(value, low, high int) int {
	if high < low {
		return low
	}
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
