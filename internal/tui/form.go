package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// maxPathSuggestions caps the autocomplete list under a path field.
const maxPathSuggestions = 5

// FormField defines a single field in a form.
type FormField struct {
	Label       string
	Placeholder string
	Value       string // initial value
	Password    bool
	Required    bool
	IsPath      bool // offer filesystem completions
}

// FormResult is sent when the user submits or cancels the form.
type FormResult struct {
	Values    []string // values indexed by field position
	Cancelled bool
}

// FormModel is a generic multi-field text input form component.
type FormModel struct {
	Title       string
	Fields      []FormField
	inputs      []textinput.Model
	cursor      int // focused field index
	suggestions []string
	suggestIdx  int
	done        bool
	theme       *Theme
}

// NewForm creates a new form with the given fields.
func NewForm(title string, fields []FormField, theme *Theme) *FormModel {
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Placeholder = f.Placeholder
		if f.Value != "" {
			ti.SetValue(f.Value)
		}
		if f.Password {
			ti.EchoMode = textinput.EchoPassword
		}
		if i == 0 {
			ti.Focus()
		}
		inputs[i] = ti
	}

	m := &FormModel{
		Title:  title,
		Fields: fields,
		inputs: inputs,
		theme:  theme,
	}
	m.refreshSuggestions()
	return m
}

// Values returns the current values of all fields.
func (m *FormModel) Values() []string {
	vals := make([]string, len(m.inputs))
	for i, inp := range m.inputs {
		vals[i] = inp.Value()
	}
	return vals
}

func (m *FormModel) Init() tea.Cmd {
	if len(m.inputs) > 0 {
		return textinput.Blink
	}
	return nil
}

func (m *FormModel) Update(msg tea.Msg) (*FormModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case keyCtrlC, keyEsc:
			m.done = true
			return m, func() tea.Msg { return FormResult{Cancelled: true} }

		case "tab":
			if len(m.suggestions) > 0 {
				m.acceptSuggestion()
				return m, nil
			}
			m.focus((m.cursor + 1) % len(m.inputs))
			return m, nil

		case "down":
			if len(m.suggestions) > 0 {
				m.suggestIdx = (m.suggestIdx + 1) % len(m.suggestions)
				return m, nil
			}
			m.focus((m.cursor + 1) % len(m.inputs))
			return m, nil

		case "shift+tab", "up":
			if len(m.suggestions) > 0 && msg.String() == "up" {
				m.suggestIdx = (m.suggestIdx - 1 + len(m.suggestions)) % len(m.suggestions)
				return m, nil
			}
			m.focus((m.cursor - 1 + len(m.inputs)) % len(m.inputs))
			return m, nil

		case keyEnter:
			if m.cursor == len(m.inputs)-1 {
				return m.submit()
			}
			m.focus(m.cursor + 1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.cursor], cmd = m.inputs[m.cursor].Update(msg)
	m.refreshSuggestions()
	return m, cmd
}

func (m *FormModel) focus(i int) {
	m.inputs[m.cursor].Blur()
	m.cursor = i
	m.inputs[m.cursor].Focus()
	m.refreshSuggestions()
}

func (m *FormModel) refreshSuggestions() {
	m.suggestions = nil
	m.suggestIdx = 0
	if len(m.Fields) == 0 || !m.Fields[m.cursor].IsPath {
		return
	}
	m.suggestions = listPathSuggestions(m.inputs[m.cursor].Value())
}

func (m *FormModel) acceptSuggestion() {
	m.inputs[m.cursor].SetValue(m.suggestions[m.suggestIdx])
	m.inputs[m.cursor].CursorEnd()
	m.refreshSuggestions()
}

func (m *FormModel) submit() (*FormModel, tea.Cmd) {
	for i, f := range m.Fields {
		if f.Required && strings.TrimSpace(m.inputs[i].Value()) == "" {
			m.focus(i)
			return m, nil
		}
	}

	vals := m.Values()
	m.done = true
	return m, func() tea.Msg { return FormResult{Values: vals} }
}

// listPathSuggestions returns entries of the directory named by input whose
// names start with its last element. Directories end in a separator. An
// exact match on a file yields nothing.
func listPathSuggestions(input string) []string {
	if input == "" {
		return nil
	}
	dir, prefix := filepath.Split(input)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}
	if strings.HasPrefix(readDir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		readDir = filepath.Join(home, strings.TrimPrefix(readDir, "~"))
	}

	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || (strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".")) {
			continue
		}
		if e.IsDir() {
			name += string(filepath.Separator)
		} else if name == prefix {
			continue
		}
		out = append(out, dir+name)
	}
	sort.Strings(out)
	if len(out) > maxPathSuggestions {
		out = out[:maxPathSuggestions]
	}
	return out
}

func (m *FormModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render(m.Title))
	b.WriteString("\n\n")

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Secondary)

	for i, f := range m.Fields {
		label := labelStyle.Render(f.Label)
		if f.Required {
			label += lipgloss.NewStyle().Foreground(m.theme.Error).Render(" *")
		}
		b.WriteString(label + "\n")
		b.WriteString("  " + m.inputs[i].View() + "\n")
		if i == m.cursor {
			for j, s := range m.suggestions {
				style := lipgloss.NewStyle().Foreground(m.theme.Muted)
				prefix := "    "
				if j == m.suggestIdx {
					style = lipgloss.NewStyle().Foreground(m.theme.Primary)
					prefix = "  › "
				}
				b.WriteString(style.Render(prefix+s) + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := m.theme.HelpKey.Render("tab") + " " + m.theme.HelpDesc.Render("next / complete") + "  " +
		m.theme.HelpKey.Render(keyEnter) + " " + m.theme.HelpDesc.Render("submit") + "  " +
		m.theme.HelpKey.Render(keyEsc) + " " + m.theme.HelpDesc.Render("cancel")
	b.WriteString(help)

	return b.String()
}

// formViewUpdate drives a form hosted by another view. Only ctrl+c and esc
// leave; every printable key, q included, goes to the focused field.
func formViewUpdate(form *FormModel, msg tea.Msg, onSubmit func([]string) tea.Cmd) (*FormModel, tea.Cmd) {
	if res, ok := msg.(FormResult); ok {
		if res.Cancelled {
			return form, popView
		}
		return form, onSubmit(res.Values)
	}
	if key, ok := msg.(tea.KeyPressMsg); ok && (key.String() == keyCtrlC || IsBack(key)) {
		return form, popView
	}
	return form.Update(msg)
}
