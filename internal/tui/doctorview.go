package tui

import (
	"bytes"
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/lamchakchan/fastmac/internal/doctor"
)

// DoctorModel runs the doctor checks and shows the report. r runs them again,
// which is handy after installing Homebrew or clearing the cache.
type DoctorModel struct {
	viewer *ViewerModel
}

func NewDoctor(ctx context.Context, opts doctor.Options, theme *Theme) *DoctorModel {
	return &DoctorModel{viewer: NewLoadingViewer("Doctor", func() (string, error) {
		// The report is the content even when checks fail.
		var buf bytes.Buffer
		if _, err := doctor.RunTo(ctx, &buf, opts); err != nil {
			return "", err
		}
		return buf.String(), nil
	}, theme)}
}

func (m *DoctorModel) Init() tea.Cmd  { return m.viewer.Init() }
func (m *DoctorModel) View() tea.View { return m.viewer.View() }

func (m *DoctorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "r" && !m.viewer.loading {
		m.viewer.loading = true
		return m, m.viewer.Init()
	}
	_, cmd := m.viewer.Update(msg)
	return m, cmd
}
