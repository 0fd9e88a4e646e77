package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

type helpSection struct {
	title string
	binds [][2]string
}

var helpSections = []helpSection{
	{"Picker", [][2]string{
		{"space / x", "Toggle the tool under the cursor"},
		{"↑↓ / j k", "Move"},
		{"pgup / pgdn", "Page"},
		{"g / G", "First / last tool"},
		{"/", "Search name, description, category"},
		{"p", "Preview the install script"},
		{"w", "Save the install script"},
		{keyEnter, "Install the selection now"},
		{"i", "Mark tools already installed"},
		{"c", "Clear the selection"},
		{"esc", "Clear search, then go back"},
	}},
	{"Marks", [][2]string{
		{"[x]", "Picked by you"},
		{"[+]", "Required by something you picked"},
		{"✓", "Already installed"},
	}},
	{"Save form", [][2]string{
		{"tab", "Accept path suggestion"},
		{"↑ / ↓", "Cycle suggestions"},
		{keyEnter, "Save"},
		{"esc", "Cancel"},
	}},
	{"Viewers", [][2]string{
		{"j / k", "Scroll"},
		{"g / G", "Top / bottom"},
		{"y", "Copy to clipboard"},
		{"r", "Run the doctor checks again"},
		{"esc / q", "Close"},
	}},
	{"Dialogs", [][2]string{
		{"y / n", "Answer"},
		{"← / →", "Switch button"},
		{keyEnter, "Confirm"},
	}},
}

// HelpModel lists the key bindings and explains the picker marks.
type HelpModel struct {
	theme *Theme
}

func NewHelp(theme *Theme) *HelpModel {
	return &HelpModel{theme: theme}
}

func (m *HelpModel) Init() tea.Cmd { return nil }

func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok && (IsQuit(key) || IsBack(key) || key.String() == "?") {
		return m, popView
	}
	return m, nil
}

func (m *HelpModel) View() tea.View {
	key := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Primary).Width(14)
	desc := lipgloss.NewStyle().Foreground(m.theme.Muted)
	head := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Secondary)

	var b strings.Builder
	b.WriteString(m.theme.SectionBanner("Help"))
	b.WriteString("\n")
	b.WriteString(desc.Render("  Picking a tool also picks what it requires. Deselecting a tool drops"))
	b.WriteString("\n")
	b.WriteString(desc.Render("  anything that only it pulled in, and anything that needed it."))
	b.WriteString("\n\n")
	for _, s := range helpSections {
		b.WriteString(head.Render(s.title) + "\n")
		for _, bind := range s.binds {
			b.WriteString("  " + key.Render(bind[0]) + desc.Render(bind[1]) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(m.theme.HelpKey.Render("esc / q / ?") + " " + m.theme.HelpDesc.Render("close"))
	return tea.NewView(b.String())
}
