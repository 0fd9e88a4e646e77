package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const (
	scrollbarWidth = 2 // gap + bar
	viewerChrome   = 4 // banner and footer lines around the viewport
	copiedFlash    = 2 * time.Second
)

// renderScrollbar draws a one-column track with a thumb sized to the
// visible share of the content. It is empty when everything fits.
func renderScrollbar(height, total, visible int, pct float64, theme *Theme) string {
	if total <= visible || height < 1 {
		return ""
	}
	size := max(1, height*visible/total)
	start := min(max(0, int(pct*float64(height-size))), height-size)

	track := lipgloss.NewStyle().Foreground(theme.Muted).Render("│")
	thumb := lipgloss.NewStyle().Foreground(theme.Secondary).Render("┃")
	lines := make([]string, height)
	for i := range lines {
		lines[i] = track
		if i >= start && i < start+size {
			lines[i] = thumb
		}
	}
	return strings.Join(lines, "\n")
}

// viewerLoadedMsg carries the result of a ViewerModel loader.
type viewerLoadedMsg struct {
	content string
	err     error
}

type viewerCopiedMsg struct{}

// ViewerModel is a scrollable read-only page: script previews, the catalog
// listing and doctor output. Content can be given up front or produced by a
// loader that runs when the view is pushed.
type ViewerModel struct {
	title    string
	viewport viewport.Model
	theme    *Theme
	loading  bool
	err      error
	copied   bool
	loader   func() (string, error)
	width    int
	height   int
}

func newViewport(content string) viewport.Model {
	vp := viewport.New()
	vp.SoftWrap = true
	vp.SetContent(content)
	return vp
}

// NewViewer shows content as is.
func NewViewer(title, content string, theme *Theme) *ViewerModel {
	return &ViewerModel{title: title, viewport: newViewport(content), theme: theme}
}

// NewLoadingViewer shows a placeholder until loader returns.
func NewLoadingViewer(title string, loader func() (string, error), theme *Theme) *ViewerModel {
	return &ViewerModel{title: title, viewport: newViewport(""), theme: theme, loading: true, loader: loader}
}

// SetSize sizes the viewer without waiting for a WindowSizeMsg.
func (m *ViewerModel) SetSize(width, height int) {
	m.width, m.height = width, height
	m.viewport.SetWidth(max(1, width-scrollbarWidth))
	m.viewport.SetHeight(max(1, height-viewerChrome))
}

// SetContent replaces the text and ends any loading state.
func (m *ViewerModel) SetContent(content string) {
	m.loading = false
	m.err = nil
	m.viewport.SetContent(content)
}

func (m *ViewerModel) Init() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	loader := m.loader
	return func() tea.Msg {
		content, err := loader()
		return viewerLoadedMsg{content: content, err: err}
	}
}

func (m *ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case viewerLoadedMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			return m, nil
		}
		m.SetContent(msg.content)
		return m, nil

	case viewerCopiedMsg:
		m.copied = false
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", keyCtrlC, keyEsc:
			return m, popView
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		case "y":
			m.copied = true
			return m, tea.Batch(
				tea.SetClipboard(m.viewport.GetContent()),
				tea.Tick(copiedFlash, func(time.Time) tea.Msg { return viewerCopiedMsg{} }),
			)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ViewerModel) View() tea.View {
	var b strings.Builder
	b.WriteString(m.theme.SectionBanner(m.title))

	switch {
	case m.loading:
		b.WriteString("\n  Loading...")
		return tea.NewView(b.String())
	case m.err != nil:
		b.WriteString("\n  " + lipgloss.NewStyle().Foreground(m.theme.Error).Render(m.err.Error()))
		b.WriteString("\n\n  Press q to go back.\n")
		return tea.NewView(b.String())
	}

	body := m.viewport.View()
	lines := m.viewport.TotalLineCount()
	if bar := renderScrollbar(m.viewport.Height(), lines, m.viewport.Height(), m.viewport.ScrollPercent(), m.theme); bar != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", bar)
	}
	b.WriteString(body + "\n")

	trail := fmt.Sprintf("%s lines  %s%%", m.theme.HelpKey.Render(fmt.Sprint(lines)), m.theme.HelpKey.Render(fmt.Sprint(int(m.viewport.ScrollPercent()*100))))
	if m.copied {
		trail = lipgloss.NewStyle().Foreground(m.theme.Success).Bold(true).Render("Copied!")
	}
	fmt.Fprintf(&b, "%s scroll  %s page  %s top/bottom  %s copy  %s back  %s",
		m.theme.HelpKey.Render("j/k"),
		m.theme.HelpKey.Render("pgup/pgdn"),
		m.theme.HelpKey.Render("g/G"),
		m.theme.HelpKey.Render("y"),
		m.theme.HelpKey.Render(keyEsc),
		trail,
	)
	return tea.NewView(b.String())
}
