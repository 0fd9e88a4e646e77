package tui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// SectionBanner renders a view heading under a rule.
func (t *Theme) SectionBanner(title string) string {
	accent := lipgloss.NewStyle().Foreground(t.Secondary)
	return "\n" + accent.Render(strings.Repeat("─", 40)) + "\n  " + accent.Bold(true).Render("▶ "+title) + "\n"
}

func (t *Theme) outcomeBox(c color.Color, mark, msg string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Padding(0, 2).
		Render(lipgloss.NewStyle().Foreground(c).Bold(true).Render(mark + " " + msg))
}

// SuccessBox frames a finished action, such as a saved script.
func (t *Theme) SuccessBox(msg string) string { return t.outcomeBox(t.Success, "✓", msg) }

// ErrorBox frames a failed action.
func (t *Theme) ErrorBox(msg string) string { return t.outcomeBox(t.Error, "✗", msg) }

// InstalledMark flags a tool that is already on the machine.
func (t *Theme) InstalledMark() string {
	return lipgloss.NewStyle().Foreground(t.Success).Bold(true).Render("✓")
}

// WarnBadge prefixes picker warnings.
func (t *Theme) WarnBadge() string { return t.BadgeWarn.Render("[WARN]") }
