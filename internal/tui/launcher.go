package tui

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lamchakchan/fastmac/internal/catalog"
)

// launcherItem is one menu entry. command is either a view key handled by
// activate or a fastmac subcommand run inline.
type launcherItem struct {
	group   string
	key     string
	name    string
	desc    string
	command string
	args    []string
}

var launcherItems = []launcherItem{
	{group: "Tools", key: "p", name: "Pick tools", desc: "Choose tools and build an install script", command: "pick"},
	{group: "Tools", key: "b", name: "Browse catalog", desc: "Every tool with its requirements", command: "catalog"},
	{group: "Maintenance", key: "d", name: "Doctor", desc: "Check prerequisites and catalog health", command: "doctor"},
	{group: "Maintenance", key: "x", name: "Clear cache", desc: "Drop cached catalog documents", command: "cache", args: []string{"clear"}},
	{group: "Maintenance", key: "?", name: "Help", desc: "Keys and selection rules", command: "help"},
}

// launcherModel is the home menu. It owns the picker so a selection
// survives leaving the picker and coming back.
type launcherModel struct {
	ctx      context.Context
	items    []launcherItem
	cursor   int
	theme    *Theme
	opts     Options
	picker   *PickerModel
	quitting bool
}

func newLauncher(ctx context.Context, opts Options, theme *Theme) *launcherModel {
	return &launcherModel{ctx: ctx, items: launcherItems, theme: theme, opts: opts}
}

func (m *launcherModel) Init() tea.Cmd { return nil }

func (m *launcherModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogReloadedMsg:
		if msg.err == nil {
			m.opts.Catalog = msg.cat
		}
		// The picker may be off the stack; it ignores a catalog it already has.
		if m.picker != nil {
			_, cmd := m.picker.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyPressMsg:
		if IsQuit(msg) {
			m.quitting = true
			return m, tea.Quit
		}
		switch k := msg.String(); k {
		case "up", "k":
			m.cursor = max(0, m.cursor-1)
		case "down", "j":
			m.cursor = min(len(m.items)-1, m.cursor+1)
		case keyEnter:
			return m, m.activate(&m.items[m.cursor])
		default:
			for i := range m.items {
				if m.items[i].key == k {
					m.cursor = i
					return m, m.activate(&m.items[i])
				}
			}
		}
	}
	return m, nil
}

func (m *launcherModel) activate(item *launcherItem) tea.Cmd {
	switch item.command {
	case "pick":
		if m.picker == nil {
			m.picker = NewPicker(m.ctx, m.opts.Catalog, m.theme)
		}
		return pushView(m.picker)
	case "catalog":
		return pushView(NewCatalogView(m.opts.Catalog, m.theme))
	case "doctor":
		return pushView(NewDoctor(m.ctx, m.opts.Doctor, m.theme))
	case "help":
		return pushView(NewHelp(m.theme))
	}
	return execAndReturn(item.command, item.args)
}

func (m *launcherModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	active := lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true)

	var b strings.Builder
	info := fmt.Sprintf("%d tools in %d categories (%s)",
		len(m.opts.Catalog.Tools), len(m.opts.Catalog.Categories), originLabel(m.opts.Origin))
	if m.picker != nil && len(m.picker.selected) > 0 {
		info += " · " + pluralize(len(m.picker.selected), "tool") + " picked"
	}
	b.WriteString(m.theme.Banner.Render(m.theme.Title.Render("fastmac  "+m.opts.Version) + "\n" + m.theme.Subtitle.Render(info)))
	b.WriteString("\n")

	width := 0
	for _, it := range m.items {
		width = max(width, len(it.name))
	}
	group := ""
	for i, it := range m.items {
		if it.group != group {
			group = it.group
			b.WriteString(m.theme.SectionHead.Render(group) + "\n")
		}
		cursor, key, name := "  ", muted.Render(it.key), fmt.Sprintf("%-*s", width, it.name)
		if i == m.cursor {
			cursor, key, name = active.Render("> "), active.Render(it.key), active.Render(name)
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n", cursor, key, name, muted.Render(it.desc))
	}

	fmt.Fprintf(&b, "\n%s navigate  %s select  %s quit\n",
		m.theme.HelpKey.Render("↑/↓"),
		m.theme.HelpKey.Render(keyEnter),
		m.theme.HelpKey.Render("q"),
	)
	return tea.NewView(b.String())
}

func originLabel(o catalog.Origin) string {
	if o == "" {
		return "local"
	}
	return string(o)
}
