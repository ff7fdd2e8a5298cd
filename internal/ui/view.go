package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"rind/internal/domain"
)

const createdLayout = "2006-01-02 15:04"

type uiStyles struct {
	headerStyle lipgloss.Style
	mutedStyle  lipgloss.Style
	statusStyle lipgloss.Style
	warnStyle   lipgloss.Style
	cursorStyle lipgloss.Style
	dirStyle    lipgloss.Style
	panelBorder lipgloss.Style
}

func stylesFor(model Model) uiStyles {
	if strings.ToLower(model.state.Prefs.Theme) == "light" {
		return uiStyles{
			headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
			mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			cursorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("90")).Bold(true),
			dirStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
			panelBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		}
	}
	return uiStyles{
		headerStyle: lipgloss.NewStyle().Bold(true),
		mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		cursorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		dirStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		panelBorder: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

func (model Model) View() string {
	styles := stylesFor(model)
	if model.showHelp {
		return renderHelpView(model, styles)
	}

	body := renderBody(model, styles)
	footer := renderFooter(model, styles)
	return strings.Join([]string{body, footer}, "\n")
}

func renderBody(model Model, styles uiStyles) string {
	visible := model.state.VisibleMatches()
	bodyHeight := maxInt(model.listHeight(), 3)

	leftWidth, rightWidth, showRight := splitPanels(model.width)
	left := renderMatchPanel(model, styles, visible, bodyHeight, leftWidth)
	if !showRight {
		return left
	}
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("│")
	right := renderDetailPanel(model, styles, rightWidth, bodyHeight)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right)
}

func renderFooter(model Model, styles uiStyles) string {
	statusLine := trimStatus(model.status, model.width)
	if model.scanning {
		statusLine = fmt.Sprintf("%s  %s", statusLine, progressBar(model.progressCount, 18))
	}
	statusStyle := styles.mutedStyle
	lower := strings.ToLower(model.status)
	if strings.Contains(lower, "error") {
		statusStyle = styles.warnStyle
	}
	statusLine = statusStyle.Render(statusLine)

	treeInfo := fmt.Sprintf("Tree: %d files, %d dirs", model.state.Files, model.state.Dirs)
	sortInfo := fmt.Sprintf("Order: %s", strings.ToUpper(string(model.state.Prefs.SortMode)))
	hiddenInfo := "Hidden: off"
	if model.state.Prefs.ShowHidden {
		hiddenInfo = "Hidden: on"
	}
	left := fmt.Sprintf("%s  %s  %s%s", treeInfo, sortInfo, hiddenInfo, filterSummary(model))
	keys := "↑/↓ move  e ext  z size  t created  x clear  o order  h hidden  r rescan  ? help  q quit"
	if model.inputMode != "" {
		keys = "type value  enter apply (empty removes)  esc cancel"
	}
	footerLine := padLine(left, keys, model.width)
	return strings.Join([]string{statusLine, styles.mutedStyle.Render(footerLine)}, "\n")
}

func renderMatchPanel(model Model, styles uiStyles, visible []*domain.Node, height, width int) string {
	contentWidth := maxInt(width-2, 18)
	status := fmt.Sprintf("%d MATCHES", len(visible))
	if model.scanning {
		status = "SCANNING"
	}
	// The border's horizontal padding takes two of the content columns.
	headerLine := padLine(styles.headerStyle.Render("rind")+"  "+model.state.Path, styles.statusStyle.Render(status), contentWidth-2)
	listHeight := maxInt(height-1, 1)

	if len(visible) == 0 {
		message := "No matches"
		switch {
		case model.scanning:
			message = "Scanning..."
		case model.state.Root == nil:
			message = "Not scanned - press r"
		case !model.state.Filtering():
			message = "No filters - press e, z or t"
		}
		lines := []string{headerLine, message}
		for len(lines) < height {
			lines = append(lines, "")
		}
		return styles.panelBorder.Width(contentWidth).Render(strings.Join(lines, "\n"))
	}

	start := clamp(model.viewTop, 0, maxInt(len(visible)-1, 0))
	end := minInt(start+listHeight, len(visible))
	lines := make([]string, 0, height)
	lines = append(lines, headerLine)
	for index := start; index < end; index++ {
		node := visible[index]
		name := node.Name()
		if node.IsDir() {
			name = styles.dirStyle.Render(name + "/")
		}
		line := fmt.Sprintf("%9s  %s  %s", sizeLabel(node), createdLabel(node), name)
		if index == model.state.Cursor {
			line = styles.cursorStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return styles.panelBorder.Width(contentWidth).Render(strings.Join(lines, "\n"))
}

func renderDetailPanel(model Model, styles uiStyles, width, height int) string {
	contentWidth := maxInt(width-2, 10)
	node := model.state.CurrentMatch()
	if node == nil {
		return styles.panelBorder.Width(contentWidth).Render("No selection")
	}
	created := time.Unix(node.CreateTime(), 0)
	extension := node.Extension()
	if extension == "" {
		extension = "-"
	}
	lines := []string{
		styles.headerStyle.Render("Path"),
		node.Name(),
		"",
		styles.headerStyle.Render("Type"),
		node.Type().String(),
		"",
		styles.headerStyle.Render("Size"),
		fmt.Sprintf("%s (%d bytes)", humanize.Bytes(uint64(node.Size())), node.Size()),
		"",
		styles.headerStyle.Render("Extension"),
		extension,
		"",
		styles.headerStyle.Render("Created"),
		fmt.Sprintf("%s (%s)", created.Format(createdLayout), humanize.Time(created)),
	}
	if node.IsDir() {
		lines = append(lines, "", styles.headerStyle.Render("Entries"), fmt.Sprintf("%d direct, %d total", node.ChildCount(), node.Len()))
	}
	content := lipgloss.NewStyle().Width(contentWidth).Height(height).Render(strings.Join(lines, "\n"))
	return styles.panelBorder.Width(contentWidth).Render(content)
}

func renderHelpView(model Model, styles uiStyles) string {
	bindings := []key.Binding{
		model.keys.Up,
		model.keys.Down,
		model.keys.Top,
		model.keys.Bottom,
		model.keys.ExtFilter,
		model.keys.SizeFilter,
		model.keys.CreateFilter,
		model.keys.ClearFilter,
		model.keys.Sort,
		model.keys.Hidden,
		model.keys.Theme,
		model.keys.Rescan,
		model.keys.Help,
		model.keys.Quit,
	}

	lines := []string{styles.headerStyle.Render("rind help"), ""}
	lines = append(lines, styles.headerStyle.Render("Filters"))
	lines = append(lines,
		"an entry matches when any active filter accepts it",
		"e extension (without the dot)",
		"z min size (bytes, 10KB, 2MiB)",
		"t created after (unix seconds, RFC 3339, YYYY-MM-DD)",
		"an empty value removes the filter",
	)
	lines = append(lines, "", styles.headerStyle.Render("Order"))
	lines = append(lines, "found = subtree entries before their directory", "o cycles found, name, size, created")
	lines = append(lines, "", styles.headerStyle.Render("Keys"))
	for _, binding := range bindings {
		keysLabel := strings.Join(binding.Keys(), ", ")
		lines = append(lines, fmt.Sprintf("%-18s %s", keysLabel, binding.Help().Desc))
	}
	lines = append(lines, "", "Press ? to close help")
	width := model.width
	if width <= 0 {
		width = 80
	}
	return styles.panelBorder.Width(maxInt(width-2, 10)).Render(strings.Join(lines, "\n"))
}

func padLine(left, right string, width int) string {
	if width <= 0 {
		return left
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", space) + right
}

func splitPanels(width int) (int, int, bool) {
	if width < 80 {
		return width, 0, false
	}
	left := maxInt(int(float64(width)*0.6), 40)
	right := width - left - 1
	if right < 30 {
		return width, 0, false
	}
	return left, right, true
}

func sizeLabel(node *domain.Node) string {
	if node.IsDir() {
		return "-"
	}
	return humanize.Bytes(uint64(node.Size()))
}

func createdLabel(node *domain.Node) string {
	return time.Unix(node.CreateTime(), 0).Format(createdLayout)
}

func progressBar(count int64, width int) string {
	if width <= 0 {
		return ""
	}
	pos := int(count % int64(width))
	return fmt.Sprintf("[%s%s]", strings.Repeat("█", pos), strings.Repeat("░", width-pos))
}

// trimStatus cuts message to fit width display columns, never inside a rune.
func trimStatus(message string, width int) string {
	if width <= 0 {
		return message
	}
	limit := width - 4
	if limit <= 0 || lipgloss.Width(message) <= limit {
		return message
	}
	runes := []rune(message)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func filterSummary(model Model) string {
	parts := []string{}
	if model.state.Extension != nil {
		parts = append(parts, fmt.Sprintf("ext=%q", *model.state.Extension))
	}
	if model.state.MinSize != nil {
		parts = append(parts, fmt.Sprintf("size>%s", humanize.Bytes(uint64(maxInt64(*model.state.MinSize, 0)))))
	}
	if model.state.CreatedAfter != nil {
		parts = append(parts, fmt.Sprintf("created>%s", time.Unix(*model.state.CreatedAfter, 0).Format(createdLayout)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  Filters[" + strings.Join(parts, " or ") + "]"
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
