package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lamchakchan/fastmac/internal/catalog"
	"github.com/lamchakchan/fastmac/internal/logging"
	"github.com/lamchakchan/fastmac/internal/script"
	"github.com/lamchakchan/fastmac/internal/selection"
	"github.com/lamchakchan/fastmac/internal/tools"
)

const (
	// pickerOverhead is the number of lines around the list: title, search
	// line, blank, status, notices and help.
	pickerOverhead = 10
	maxNotices     = 3
)

// pickerGroup is one category block as shown in the picker.
type pickerGroup struct {
	name  string
	tools []catalog.Tool
}

// pickerRow is either a category header or a tool.
type pickerRow struct {
	group int
	tool  *catalog.Tool // nil for headers
}

// PickerModel lets the user tick tools by category. Every toggle goes
// through the selection graph, and the rows only change according to the
// Changes it returns.
type PickerModel struct {
	ctx   context.Context
	theme *Theme
	cat   *catalog.Catalog
	graph *selection.Graph

	// View cache, kept in step with the graph through returned Changes.
	selected map[selection.ToolID]bool
	manual   map[selection.ToolID]bool

	groups []pickerGroup
	rows   []pickerRow
	cursor int // row index; always a tool row when any exist
	offset int

	search    textinput.Model
	searching bool

	installed map[string]bool // nil until probed
	probing   bool
	spinner   spinner.Model

	confirm   *ConfirmModel
	notices   []string
	noticeErr bool

	width  int
	height int
}

// NewPicker creates the tool picker for cat.
func NewPicker(ctx context.Context, cat *catalog.Catalog, theme *Theme) *PickerModel {
	search := textinput.New()
	search.Placeholder = "name, description or category"
	search.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Primary)

	m := &PickerModel{
		ctx:     ctx,
		theme:   theme,
		search:  search,
		spinner: sp,
	}
	m.load(cat)
	return m
}

// load swaps in a catalog and a fresh graph, dropping all selection state.
func (m *PickerModel) load(cat *catalog.Catalog) {
	m.cat = cat
	m.selected = make(map[selection.ToolID]bool)
	m.manual = make(map[selection.ToolID]bool)
	m.installed = nil
	m.notices = nil
	m.noticeErr = false

	g, err := cat.Graph()
	var cyc *selection.CyclicDependencyError
	switch {
	case errors.As(err, &cyc):
		// Still usable: propagation terminates on cycles.
		g, _ = selection.NewUnchecked(cat.Nodes())
		m.warn(err.Error())
	case err != nil:
		g, _ = selection.NewUnchecked(nil)
		m.warn(err.Error())
	}
	m.graph = g

	// Tools without a valid category are not offered; doctor reports them.
	m.groups = m.groups[:0]
	for _, grp := range cat.Groups() {
		m.groups = append(m.groups, pickerGroup{name: grp.Category.Name, tools: grp.Tools})
	}
	m.rebuildRows()
}

// rebuildRows applies the search filter and keeps the cursor on a tool.
func (m *PickerModel) rebuildRows() {
	var current selection.ToolID
	if t := m.currentTool(); t != nil {
		current = selection.ToolID(t.ID)
	}

	query := strings.ToLower(strings.TrimSpace(m.search.Value()))
	m.rows = m.rows[:0]
	for gi := range m.groups {
		grp := &m.groups[gi]
		var matched []pickerRow
		for ti := range grp.tools {
			t := &grp.tools[ti]
			if query == "" || matches(t, grp.name, query) {
				matched = append(matched, pickerRow{group: gi, tool: t})
			}
		}
		if len(matched) == 0 {
			continue
		}
		m.rows = append(m.rows, pickerRow{group: gi})
		m.rows = append(m.rows, matched...)
	}

	m.cursor = -1
	for i, r := range m.rows {
		if r.tool == nil {
			continue
		}
		if m.cursor < 0 || selection.ToolID(r.tool.ID) == current {
			m.cursor = i
		}
		if selection.ToolID(r.tool.ID) == current {
			break
		}
	}
	m.clampScroll()
}

func matches(t *catalog.Tool, category, query string) bool {
	return strings.Contains(strings.ToLower(t.Name), query) ||
		strings.Contains(strings.ToLower(t.Description), query) ||
		strings.Contains(strings.ToLower(category), query)
}

func (m *PickerModel) currentTool() *catalog.Tool {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].tool
}

// toggle flips the tool under the cursor and applies what changed.
func (m *PickerModel) toggle() {
	t := m.currentTool()
	if t == nil {
		return
	}
	id := selection.ToolID(t.ID)

	var changes selection.Changes
	if m.selected[id] {
		changes = m.graph.Deselect(id, true)
	} else {
		changes = m.graph.Select(id, true)
	}
	m.apply(changes)
}

// apply updates the view cache from changes and queues their notices.
func (m *PickerModel) apply(changes selection.Changes) {
	m.notices = nil
	m.noticeErr = false
	for _, ch := range changes {
		if ch.Active {
			m.selected[ch.ID] = true
			m.manual[ch.ID] = m.graph.IsManual(ch.ID)
		} else {
			delete(m.selected, ch.ID)
			delete(m.manual, ch.ID)
		}
		switch ch.Reason {
		case selection.ReasonRequired:
			m.notify(fmt.Sprintf("Auto-selected %s (required by %s)", m.name(ch.ID), m.name(ch.Cause)))
		case selection.ReasonEvicted:
			m.notify(fmt.Sprintf("Deselected %s (requires %s)", m.name(ch.ID), m.name(ch.Cause)))
		}
	}
	logging.Debug("Picker", "Applied %d changes, %d selected", len(changes), len(m.selected))
}

func (m *PickerModel) name(id selection.ToolID) string {
	if t, ok := m.cat.Tool(string(id)); ok {
		return t.Name
	}
	return string(id)
}

func (m *PickerModel) notify(msg string) {
	m.notices = append(m.notices, msg)
}

func (m *PickerModel) warn(msg string) {
	m.notices = []string{msg}
	m.noticeErr = true
}

// SelectedIDs returns the active tools in catalog order.
func (m *PickerModel) SelectedIDs() []string {
	set := m.graph.SelectedSet()
	out := make([]string, len(set))
	for i, id := range set {
		out[i] = string(id)
	}
	return out
}

// reload swaps in a new catalog and re-selects the tools the user had
// picked that still exist.
func (m *PickerModel) reload(cat *catalog.Catalog) {
	picked := m.graph.ManualSet()
	m.load(cat)

	var dropped []string
	for _, id := range picked {
		if !m.graph.Known(id) {
			dropped = append(dropped, string(id))
			continue
		}
		m.graph.Select(id, true)
	}
	// A new graph has no history to replay, so the cache is rebuilt whole.
	for _, id := range m.graph.SelectedSet() {
		m.selected[id] = true
		m.manual[id] = m.graph.IsManual(id)
	}

	m.notify(fmt.Sprintf("Catalog reloaded (%s)", pluralize(len(cat.Tools), "tool")))
	if len(dropped) > 0 {
		m.notify("No longer in the catalog: " + strings.Join(dropped, ", "))
	}
}

func (m *PickerModel) probe() tea.Cmd {
	list := make([]tools.Tool, len(m.cat.Tools))
	for i, t := range m.cat.Tools {
		list[i] = tools.FromCatalog(t)
	}
	m.probing = true
	ctx := m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return installedMsg{state: tools.Probe(ctx, list)}
	})
}

func (m *PickerModel) visibleRows() int {
	return max(1, m.height-pickerOverhead)
}

func (m *PickerModel) clampScroll() {
	visible := m.visibleRows()
	if m.cursor >= 0 && m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	// Show the header above the first tool of a category.
	if m.cursor > 0 && m.offset == m.cursor && m.rows[m.cursor-1].tool == nil {
		m.offset--
	}
	if maxOffset := len(m.rows) - visible; m.offset > maxOffset {
		m.offset = max(0, maxOffset)
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// move steps the cursor by delta tool rows, skipping headers.
func (m *PickerModel) move(delta int) {
	if m.cursor < 0 {
		return
	}
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	pos := m.cursor
	for i := pos + step; i >= 0 && i < len(m.rows) && delta > 0; i += step {
		if m.rows[i].tool != nil {
			pos = i
			delta--
		}
	}
	m.cursor = pos
	m.clampScroll()
}

func (m *PickerModel) Init() tea.Cmd { return nil }

func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.SetWidth(max(10, msg.Width-4))
		m.clampScroll()
		return m, nil

	case catalogReloadedMsg:
		if msg.err != nil {
			m.warn("Catalog reload failed: " + msg.err.Error())
			return m, nil
		}
		if msg.cat != m.cat {
			m.reload(msg.cat)
		}
		return m, nil

	case installedMsg:
		m.probing = false
		m.installed = msg.state
		n := 0
		for _, ok := range msg.state {
			if ok {
				n++
			}
		}
		m.notices = []string{fmt.Sprintf("%d of %d tools already installed", n, len(msg.state))}
		m.noticeErr = false
		return m, nil

	case execDoneMsg:
		if msg.command != "install" {
			return m, nil
		}
		if msg.err != nil {
			m.warn("Install failed: " + msg.err.Error())
		} else {
			m.notices = []string{"Install finished"}
			m.noticeErr = false
		}
		return m, m.probe()

	case spinner.TickMsg:
		if !m.probing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ConfirmResult:
		m.confirm = nil
		if msg.Confirmed {
			changes := m.graph.Clear()
			m.apply(changes)
			m.notify("Cleared " + pluralize(len(changes), "tool"))
		}
		return m, nil

	case tea.KeyPressMsg:
		if m.confirm != nil {
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *PickerModel) updateSearch(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.rebuildRows()
		return m, nil
	case keyEnter, "down", "up":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.rebuildRows()
	return m, cmd
}

func (m *PickerModel) updateKeys(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if isToggle(msg) {
		m.toggle()
		return m, nil
	}
	switch msg.String() {
	case "q", keyCtrlC:
		return m, popView
	case keyEsc:
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.rebuildRows()
			return m, nil
		}
		return m, popView
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "pgup", "b":
		m.move(-m.visibleRows())
	case "pgdown", "pgdn", "f":
		m.move(m.visibleRows())
	case "g":
		m.move(-len(m.rows))
	case "G":
		m.move(len(m.rows))
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "c":
		if len(m.selected) > 0 {
			m.confirm = NewConfirm("Clear selection?",
				"Deselect all "+pluralize(len(m.selected), "tool")+".", false, m.theme).WithLabels("Clear", "Keep")
		}
	case "i":
		if !m.probing {
			return m, m.probe()
		}
	case "p":
		if len(m.selected) == 0 {
			m.warn("Select at least one tool first")
			return m, nil
		}
		s, err := script.Generate(m.cat, m.SelectedIDs(), script.Options{})
		if err != nil {
			m.warn(err.Error())
			return m, nil
		}
		return m, pushView(NewViewer("Script preview", s.Content, m.theme))
	case "w":
		if len(m.selected) == 0 {
			m.warn("Select at least one tool first")
			return m, nil
		}
		return m, pushView(NewSave(m.cat, m.SelectedIDs(), m.theme))
	case keyEnter:
		if len(m.selected) == 0 {
			m.warn("Select at least one tool first")
			return m, nil
		}
		return m, execAndReturn("install", m.SelectedIDs())
	case "?":
		return m, pushView(NewHelp(m.theme))
	}
	return m, nil
}

// statusLine summarizes the selection.
func (m *PickerModel) statusLine() string {
	n := len(m.selected)
	switch n {
	case 0:
		return "No tools selected"
	case 1:
		return fmt.Sprintf("1 tool selected · about %d min", script.EstimatedMinutes(1))
	}
	return fmt.Sprintf("%d tools selected · about %d min", n, script.EstimatedMinutes(n))
}

func (m *PickerModel) groupCount(gi int) (selected, total int) {
	for _, t := range m.groups[gi].tools {
		if m.selected[selection.ToolID(t.ID)] {
			selected++
		}
	}
	return selected, len(m.groups[gi].tools)
}

func (m *PickerModel) renderRow(i int) string {
	r := m.rows[i]
	if r.tool == nil {
		k, n := m.groupCount(r.group)
		return m.theme.SectionHead.Render(m.groups[r.group].name) + " " +
			m.theme.Subtitle.Render(fmt.Sprintf("(%d/%d)", k, n))
	}

	id := selection.ToolID(r.tool.ID)
	cursor := "  "
	name := r.tool.Name
	if i == m.cursor {
		cursor = lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true).Render("> ")
		name = lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true).Render(name)
	}

	box := "[ ]"
	switch {
	case m.manual[id]:
		box = m.theme.Checked.Render("[x]")
	case m.selected[id]:
		box = m.theme.Induced.Render("[+]")
	}

	line := fmt.Sprintf("%s%s %s", cursor, box, name)
	if m.installed != nil && m.installed[r.tool.ID] {
		line += " " + m.theme.InstalledMark()
	}
	if r.tool.Description != "" {
		line += "  " + lipgloss.NewStyle().Foreground(m.theme.Muted).Render(r.tool.Description)
	}
	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width - scrollbarWidth).Render(line)
	}
	return line
}

func (m *PickerModel) View() tea.View {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Pick tools"))
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
	}
	b.WriteString("\n\n")

	if m.confirm != nil {
		b.WriteString(m.confirm.View())
		return tea.NewView(b.String())
	}

	if len(m.rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.Muted).Render("  No tools match."))
		b.WriteString("\n")
	} else {
		visible := m.visibleRows()
		end := min(len(m.rows), m.offset+visible)
		lines := make([]string, 0, end-m.offset)
		for i := m.offset; i < end; i++ {
			lines = append(lines, m.renderRow(i))
		}
		list := strings.Join(lines, "\n")
		pct := 0.0
		if span := len(m.rows) - visible; span > 0 {
			pct = float64(m.offset) / float64(span)
		}
		if bar := renderScrollbar(len(lines), len(m.rows), visible, pct, m.theme); bar != "" {
			list = lipgloss.JoinHorizontal(lipgloss.Top, list, " ", bar)
		}
		b.WriteString(list)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := lipgloss.NewStyle().Bold(true).Render(m.statusLine())
	if m.probing {
		status += "  " + m.spinner.View() + " checking installed tools"
	}
	b.WriteString(status)
	b.WriteString("\n")

	notices := m.notices
	if len(notices) > maxNotices {
		notices = notices[len(notices)-maxNotices:]
	}
	for _, n := range notices {
		if m.noticeErr {
			b.WriteString("  " + m.theme.WarnBadge() + " " + lipgloss.NewStyle().Foreground(m.theme.Error).Render(n))
		} else {
			b.WriteString(m.theme.Notice.Render("  " + n))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := fmt.Sprintf(
		"%s toggle  %s search  %s preview  %s save  %s install  %s installed  %s clear  %s back",
		m.theme.HelpKey.Render("space"),
		m.theme.HelpKey.Render("/"),
		m.theme.HelpKey.Render("p"),
		m.theme.HelpKey.Render("w"),
		m.theme.HelpKey.Render(keyEnter),
		m.theme.HelpKey.Render("i"),
		m.theme.HelpKey.Render("c"),
		m.theme.HelpKey.Render(keyEsc),
	)
	b.WriteString(help)

	return tea.NewView(b.String())
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
