package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"rind/internal/config"
	"rind/internal/services"
	"rind/internal/state"
)

const (
	inputExtension = "ext"
	inputSize      = "size"
	inputCreated   = "created"

	createdInputLayout = "2006-01-02T15:04:05"
)

// Model browses the matches of one built tree. Filter edits re-query the
// tree in place; only r and h build it again.
type Model struct {
	state         *state.State
	scanner       services.Scanner
	progress      services.ProgressProvider
	base          config.Config
	keys          KeyMap
	showHelp      bool
	status        string
	scanning      bool
	scanGen       int
	scanCtx       context.Context
	cancel        context.CancelFunc
	width         int
	height        int
	viewTop       int
	progressCount int64
	inputMode     string
	inputValue    string
}

type ConfigProvider interface {
	ConfigSnapshot() config.Config
}

// NewModel returns a model whose Init starts the first scan of cfg.Path.
func NewModel(appState *state.State, scanner services.Scanner, cfg config.Config) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		state:    appState,
		scanner:  scanner,
		progress: progressProvider(scanner),
		base:     cfg,
		keys:     DefaultKeyMap(),
		status:   fmt.Sprintf("Scanning... %s", appState.Path),
		scanning: true,
		scanCtx:  ctx,
		cancel:   cancel,
		width:    100,
		height:   30,
	}
}

func (model Model) WithStatus(message string) Model {
	if message != "" {
		model.status = message
	}
	return model
}

func (model Model) ConfigSnapshot() config.Config {
	return model.state.ApplyPreferences(model.base)
}

func (model Model) Init() tea.Cmd {
	return tea.Batch(model.scanCmd(model.scanCtx, model.scanRequest()), model.progressCmd(model.currentProgress()))
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return model.handleKey(typed)
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.ensureCursorVisible()
		return model, nil
	case scanResultMsg:
		// Results of a scan that was replaced by r or h are dropped.
		if typed.gen != model.scanGen {
			return model, nil
		}
		model.scanning = false
		if model.cancel != nil {
			model.cancel()
			model.cancel = nil
		}
		if typed.err != nil {
			if errors.Is(typed.err, context.Canceled) {
				model.status = "Scan cancelled"
				return model, nil
			}
			model.status = fmt.Sprintf("Scan error: %v", typed.err)
			return model, nil
		}
		model.state.SetTree(typed.result.Root, typed.result.Files, typed.result.Dirs)
		model.status = fmt.Sprintf("Scan complete: %d files, %d dirs (%s)",
			typed.result.Files, typed.result.Dirs, typed.result.Duration.Round(time.Millisecond))
		model.ensureCursorVisible()
		return model, nil
	case scanProgressMsg:
		if typed.gen != model.scanGen || !model.scanning {
			return model, nil
		}
		if typed.progress.Completed {
			// The channel ended before this scan's result; poll for a newer
			// one until the scan context is released.
			return model, model.progressCmd(typed.channel)
		}
		model.progressCount = typed.progress.Scanned
		if typed.progress.Current != "" {
			model.status = fmt.Sprintf("Scanning... %d items (%s)", typed.progress.Scanned, typed.progress.Current)
		} else {
			model.status = fmt.Sprintf("Scanning... %d items", typed.progress.Scanned)
		}
		return model, model.progressCmd(nil)
	default:
		return model, nil
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.inputMode != "" {
		return model.handleFilterInput(msg)
	}
	switch {
	case key.Matches(msg, model.keys.Quit):
		model = model.cancelScan("")
		return model, tea.Quit
	case key.Matches(msg, model.keys.Help):
		model.showHelp = !model.showHelp
		return model, nil
	case key.Matches(msg, model.keys.Up):
		model.state.MoveCursor(-1)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Down):
		model.state.MoveCursor(1)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Top):
		model.state.CursorTop()
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Bottom):
		model.state.CursorBottom()
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Rescan):
		return model.beginScan()
	case key.Matches(msg, model.keys.Hidden):
		if model.state.ToggleShowHidden() {
			model.status = "Hidden entries on"
		} else {
			model.status = "Hidden entries off"
		}
		return model.beginScan()
	case key.Matches(msg, model.keys.Sort):
		mode := model.state.ToggleSortMode()
		model.status = fmt.Sprintf("Order: %s", mode)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Theme):
		model.status = fmt.Sprintf("Theme: %s", model.state.ToggleTheme())
		return model, nil
	case key.Matches(msg, model.keys.ExtFilter):
		value := ""
		if model.state.Extension != nil {
			value = *model.state.Extension
		}
		return model.beginInput(inputExtension, value), nil
	case key.Matches(msg, model.keys.SizeFilter):
		value := ""
		if model.state.MinSize != nil {
			value = strconv.FormatInt(*model.state.MinSize, 10)
		}
		return model.beginInput(inputSize, value), nil
	case key.Matches(msg, model.keys.CreateFilter):
		value := ""
		if model.state.CreatedAfter != nil {
			value = time.Unix(*model.state.CreatedAfter, 0).UTC().Format(createdInputLayout)
		}
		return model.beginInput(inputCreated, value), nil
	case key.Matches(msg, model.keys.ClearFilter):
		model.state.ClearFilters()
		model.status = "Filters cleared"
		model.ensureCursorVisible()
		return model, nil
	default:
		return model, nil
	}
}

func (model Model) beginInput(mode, value string) Model {
	model.inputMode = mode
	model.inputValue = value
	model.status = fmt.Sprintf("%s: %s", filterLabel(mode), value)
	return model
}

// handleFilterInput edits one filter option. An empty value removes the
// option; a value that does not parse leaves the query unchanged.
func (model Model) handleFilterInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		model = model.cancelScan("")
		return model, tea.Quit
	case tea.KeyEsc:
		model.inputMode = ""
		model.inputValue = ""
		model.status = "Filter cancelled"
		return model, nil
	case tea.KeyEnter:
		mode := model.inputMode
		value := strings.TrimSpace(model.inputValue)
		model.inputMode = ""
		model.inputValue = ""
		if err := model.applyFilter(mode, value); err != nil {
			model.status = fmt.Sprintf("Filter error: %v", err)
			return model, nil
		}
		model.ensureCursorVisible()
		model.status = fmt.Sprintf("Filter applied: %d matches", len(model.state.Matches))
		return model, nil
	case tea.KeyBackspace, tea.KeyDelete:
		if runes := []rune(model.inputValue); len(runes) > 0 {
			model.inputValue = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		model.inputValue += " "
	case tea.KeyRunes:
		model.inputValue += string(msg.Runes)
	}
	model.status = fmt.Sprintf("%s: %s", filterLabel(model.inputMode), model.inputValue)
	return model, nil
}

func (model Model) applyFilter(mode, value string) error {
	switch mode {
	case inputExtension:
		if value == "" {
			model.state.Extension = nil
			model.state.Refresh()
			return nil
		}
		model.state.SetExtension(value)
	case inputSize:
		if value == "" {
			model.state.MinSize = nil
			model.state.Refresh()
			return nil
		}
		size, err := config.ParseSize(value)
		if err != nil {
			return err
		}
		model.state.SetMinSize(size)
	case inputCreated:
		if value == "" {
			model.state.CreatedAfter = nil
			model.state.Refresh()
			return nil
		}
		created, err := config.ParseTime(value)
		if err != nil {
			return err
		}
		model.state.SetCreatedAfter(created)
	}
	return nil
}

func filterLabel(mode string) string {
	switch mode {
	case inputExtension:
		return "Extension"
	case inputSize:
		return "Min size"
	case inputCreated:
		return "Created after"
	default:
		return "Filter"
	}
}

func (model Model) scanRequest() services.ScanRequest {
	return services.ScanRequest{
		RootPath:   model.state.Path,
		ShowHidden: model.state.Prefs.ShowHidden,
		MaxDepth:   model.base.MaxDepth,
		Exclude:    model.base.Exclude,
	}
}

func (model Model) beginScan() (Model, tea.Cmd) {
	model = model.cancelScan("")
	stale := model.currentProgress()
	ctx, cancel := context.WithCancel(context.Background())
	model.scanGen++
	model.scanCtx = ctx
	model.cancel = cancel
	model.scanning = true
	model.progressCount = 0
	model.status = fmt.Sprintf("Scanning... %s", model.state.Path)
	return model, tea.Batch(model.scanCmd(ctx, model.scanRequest()), model.progressCmd(stale))
}

func (model Model) scanCmd(ctx context.Context, request services.ScanRequest) tea.Cmd {
	scanner := model.scanner
	gen := model.scanGen
	return func() tea.Msg {
		result, err := scanner.Scan(ctx, request)
		return scanResultMsg{gen: gen, result: result, err: err}
	}
}

func (model Model) currentProgress() <-chan services.ScanProgress {
	if model.progress == nil {
		return nil
	}
	return model.progress.Progress()
}

// progressCmd waits for the next progress report of the current scan. The
// scanner swaps its channel when the scan starts, so skip names the channel
// of an earlier scan that must not be read. The poll ends with the scan
// context.
func (model Model) progressCmd(skip <-chan services.ScanProgress) tea.Cmd {
	if model.progress == nil || model.scanCtx == nil {
		return nil
	}
	provider := model.progress
	ctx := model.scanCtx
	gen := model.scanGen
	return func() tea.Msg {
		for {
			channel := provider.Progress()
			if channel == nil || channel == skip {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(50 * time.Millisecond):
				}
				continue
			}
			select {
			case <-ctx.Done():
				return nil
			case progress, ok := <-channel:
				if !ok {
					progress = services.ScanProgress{Completed: true}
				}
				return scanProgressMsg{gen: gen, channel: channel, progress: progress}
			}
		}
	}
}

func (model Model) cancelScan(message string) Model {
	if model.cancel != nil {
		model.cancel()
		model.cancel = nil
	}
	if message != "" {
		model.status = message
	}
	model.scanning = false
	model.progressCount = 0
	return model
}

func progressProvider(scanner services.Scanner) services.ProgressProvider {
	provider, _ := scanner.(services.ProgressProvider)
	return provider
}

func (model *Model) ensureCursorVisible() {
	visible := model.state.VisibleMatches()
	if len(visible) == 0 {
		model.state.Cursor = 0
		model.viewTop = 0
		return
	}
	listHeight := model.listHeight()
	if listHeight <= 0 {
		return
	}
	if model.state.Cursor < model.viewTop {
		model.viewTop = model.state.Cursor
	}
	if model.state.Cursor >= model.viewTop+listHeight {
		model.viewTop = model.state.Cursor - listHeight + 1
	}
	maxTop := maxInt(len(visible)-listHeight, 0)
	if model.viewTop > maxTop {
		model.viewTop = maxTop
	}
}

func (model *Model) listHeight() int {
	return model.height - 6
}
