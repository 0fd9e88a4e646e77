package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/lamchakchan/fastmac/internal/catalog"
)

// CatalogModel lists every tool by category in a scrollable viewer. It
// re-renders when the catalog is reloaded.
type CatalogModel struct {
	viewer *ViewerModel
	theme  *Theme
}

// NewCatalogView creates a catalog browser.
func NewCatalogView(cat *catalog.Catalog, theme *Theme) *CatalogModel {
	return &CatalogModel{
		viewer: NewViewer("Catalog", renderCatalog(cat, theme), theme),
		theme:  theme,
	}
}

func (m *CatalogModel) Init() tea.Cmd  { return m.viewer.Init() }
func (m *CatalogModel) View() tea.View { return m.viewer.View() }
func (m *CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(catalogReloadedMsg); ok {
		if msg.err == nil {
			m.viewer.SetContent(renderCatalog(msg.cat, m.theme))
		}
		return m, nil
	}
	_, cmd := m.viewer.Update(msg)
	return m, cmd
}

func renderCatalog(cat *catalog.Catalog, theme *Theme) string {
	var b strings.Builder
	head := lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	writeTools := func(tools []catalog.Tool) {
		for _, t := range tools {
			fmt.Fprintf(&b, "  %s %s\n", lipgloss.NewStyle().Bold(true).Render(t.Name), muted.Render("("+t.ID+")"))
			if t.Description != "" {
				fmt.Fprintf(&b, "    %s\n", t.Description)
			}
			if len(t.Requires) > 0 {
				fmt.Fprintf(&b, "    %s %s\n", muted.Render("requires:"), strings.Join(t.Requires, ", "))
			}
		}
	}

	for _, g := range cat.Groups() {
		b.WriteString(head.Render(fmt.Sprintf("%s (%d)", g.Category.Name, len(g.Tools))))
		b.WriteString("\n")
		writeTools(g.Tools)
		b.WriteString("\n")
	}
	if orphans := cat.Orphans(); len(orphans) > 0 {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Warning).Render(
			fmt.Sprintf("Uncategorized (%d)", len(orphans))))
		b.WriteString("\n")
		writeTools(orphans)
	}
	return strings.TrimRight(b.String(), "\n")
}
