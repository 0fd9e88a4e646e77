package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// ConfirmResult is sent once the user answers a ConfirmModel.
type ConfirmResult struct {
	Confirmed bool
}

// ConfirmModel asks a yes/no question inside another view. The picker uses
// it before dropping the whole selection.
type ConfirmModel struct {
	Title  string
	Body   string
	Yes    string
	No     string
	Cursor bool // on Yes
	theme  *Theme
}

// NewConfirm creates a dialog with Yes/No buttons.
func NewConfirm(title, body string, defaultYes bool, theme *Theme) *ConfirmModel {
	return &ConfirmModel{Title: title, Body: body, Yes: "Yes", No: "No", Cursor: defaultYes, theme: theme}
}

// WithLabels replaces the button captions.
func (m *ConfirmModel) WithLabels(yes, no string) *ConfirmModel {
	m.Yes, m.No = yes, no
	return m
}

func (m *ConfirmModel) answer(yes bool) tea.Cmd {
	m.Cursor = yes
	return func() tea.Msg { return ConfirmResult{Confirmed: yes} }
}

func (m *ConfirmModel) Update(msg tea.Msg) (*ConfirmModel, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		return m, m.answer(true)
	case "n", "N", keyEsc, keyCtrlC:
		return m, m.answer(false)
	case keyEnter:
		return m, m.answer(m.Cursor)
	case "left", "right", "h", "l", "tab":
		m.Cursor = !m.Cursor
	}
	return m, nil
}

func (m *ConfirmModel) button(label string, on bool) string {
	color := m.theme.Muted
	if on {
		color = m.theme.Primary
	}
	return lipgloss.NewStyle().
		Bold(on).
		Foreground(color).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(label)
}

func (m *ConfirmModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.Title))
	b.WriteString("\n\n")
	if m.Body != "" {
		b.WriteString(m.Body + "\n\n")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.button(m.Yes, m.Cursor), "  ", m.button(m.No, !m.Cursor)))
	b.WriteString("\n\n")
	b.WriteString(m.theme.HelpKey.Render("y/n") + " " + m.theme.HelpDesc.Render("answer") + "  " +
		m.theme.HelpKey.Render("←/→") + " " + m.theme.HelpDesc.Render("switch") + "  " +
		m.theme.HelpKey.Render(keyEnter) + " " + m.theme.HelpDesc.Render("confirm"))
	return b.String()
}
