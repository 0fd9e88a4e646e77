package tui

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// StepStatus is the progress of one step.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepDone
	StepFailed
)

// Step is one line of a StepperModel.
type Step struct {
	Label  string
	Status StepStatus
	Detail string
}

// StepperModel shows a short sequence of steps, with a spinner on the one
// that is running.
type StepperModel struct {
	Steps   []Step
	spinner spinner.Model
	theme   *Theme
}

// NewStepper creates a stepper with every step pending.
func NewStepper(labels []string, theme *Theme) *StepperModel {
	m := &StepperModel{
		Steps:   make([]Step, len(labels)),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
		theme:   theme,
	}
	for i, l := range labels {
		m.Steps[i].Label = l
	}
	return m
}

func (m *StepperModel) Init() tea.Cmd { return m.spinner.Tick }

func (m *StepperModel) Update(msg tea.Msg) (*StepperModel, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// SetStatus ignores out of range indexes.
func (m *StepperModel) SetStatus(idx int, status StepStatus) {
	if idx >= 0 && idx < len(m.Steps) {
		m.Steps[idx].Status = status
	}
}

func (m *StepperModel) SetDetail(idx int, detail string) {
	if idx >= 0 && idx < len(m.Steps) {
		m.Steps[idx].Detail = detail
	}
}

// Finish marks step idx done or failed and starts the next one on success.
// It reports whether the whole sequence is over.
func (m *StepperModel) Finish(idx int, err error) bool {
	if err != nil {
		m.SetStatus(idx, StepFailed)
		return true
	}
	m.SetStatus(idx, StepDone)
	if idx+1 >= len(m.Steps) {
		return true
	}
	m.SetStatus(idx+1, StepRunning)
	return false
}

func (m *StepperModel) icon(s StepStatus) (string, lipgloss.Style) {
	muted := lipgloss.NewStyle().Foreground(m.theme.Muted)
	switch s {
	case StepRunning:
		return m.spinner.View(), lipgloss.NewStyle().Bold(true)
	case StepDone:
		return lipgloss.NewStyle().Foreground(m.theme.Success).Bold(true).Render("✓"), lipgloss.NewStyle()
	case StepFailed:
		return lipgloss.NewStyle().Foreground(m.theme.Error).Bold(true).Render("✗"), lipgloss.NewStyle().Foreground(m.theme.Error)
	}
	return muted.Render("○"), muted
}

func (m *StepperModel) View() string {
	var b strings.Builder
	for _, step := range m.Steps {
		icon, style := m.icon(step.Status)
		b.WriteString("  " + icon + " " + style.Render(step.Label))
		if step.Detail != "" {
			b.WriteString("  " + lipgloss.NewStyle().Foreground(m.theme.Muted).Render(step.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
