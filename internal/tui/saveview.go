package tui

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/lamchakchan/fastmac/internal/catalog"
	"github.com/lamchakchan/fastmac/internal/script"
)

// saveStepMsg reports that step idx of the save flow finished.
type saveStepMsg struct {
	idx    int
	err    error
	script *script.Script
	path   string
}

// SaveModel asks for a path, then generates and writes the install script.
type SaveModel struct {
	form    *FormModel
	stepper *StepperModel
	theme   *Theme
	cat     *catalog.Catalog
	ids     []string
	now     func() time.Time
	saving  bool
	done    bool
	path    string
	err     error
}

// NewSave creates the save-script flow for the given selection.
func NewSave(cat *catalog.Catalog, ids []string, theme *Theme) *SaveModel {
	return newSave(cat, ids, theme, time.Now)
}

func newSave(cat *catalog.Catalog, ids []string, theme *Theme, now func() time.Time) *SaveModel {
	fields := []FormField{
		{Label: "Save script to", Placeholder: "path/to/script.sh", Value: script.Filename(now()), Required: true, IsPath: true},
	}
	return &SaveModel{
		form:  NewForm("Save install script", fields, theme),
		theme: theme,
		cat:   cat,
		ids:   ids,
		now:   now,
	}
}

func (m *SaveModel) Init() tea.Cmd { return m.form.Init() }

func (m *SaveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case saveStepMsg:
		return m, m.advance(msg)
	case tea.KeyPressMsg:
		if m.done {
			return m, popView
		}
		if m.saving {
			return m, nil
		}
	}

	if m.saving {
		var cmd tea.Cmd
		m.stepper, cmd = m.stepper.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.form, cmd = formViewUpdate(m.form, msg, func(vals []string) tea.Cmd {
		m.path = expandHome(strings.TrimSpace(vals[0]))
		m.saving = true
		m.stepper = NewStepper([]string{"Generate script", "Write " + m.path}, m.theme)
		m.stepper.SetStatus(0, StepRunning)
		return tea.Batch(m.stepper.Init(), m.generate())
	})
	return m, cmd
}

func (m *SaveModel) generate() tea.Cmd {
	cat, ids, now, path := m.cat, m.ids, m.now, m.path
	return func() tea.Msg {
		s, err := script.Generate(cat, ids, script.Options{Now: now})
		return saveStepMsg{idx: 0, err: err, script: s, path: path}
	}
}

func (m *SaveModel) advance(msg saveStepMsg) tea.Cmd {
	m.err = msg.err
	if m.done = m.stepper.Finish(msg.idx, msg.err); m.done {
		return nil
	}
	m.stepper.SetDetail(0, pluralize(len(msg.script.Steps), "tool"))
	s, path := msg.script, msg.path
	return func() tea.Msg {
		return saveStepMsg{idx: 1, err: script.Write(path, s), path: path}
	}
}

func (m *SaveModel) View() tea.View {
	if !m.saving {
		return tea.NewView(m.form.View())
	}
	var b strings.Builder
	b.WriteString(m.theme.SectionBanner("Save install script"))
	b.WriteString("\n")
	b.WriteString(m.stepper.View())
	if m.done {
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(m.theme.ErrorBox(m.err.Error()))
		} else {
			b.WriteString(m.theme.SuccessBox("Saved " + m.path))
			b.WriteString("\n\n  Run it with: bash " + m.path)
		}
		b.WriteString("\n\n")
		b.WriteString(m.theme.HelpDesc.Render("Press any key to go back."))
	}
	return tea.NewView(b.String())
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
