package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/lamchakchan/fastmac/internal/catalog"
)

// PopViewMsg is sent when a view wants to pop itself from the navigation stack.
type PopViewMsg struct{}

// PushViewMsg is sent when a view wants to push a new view onto the navigation stack.
type PushViewMsg struct {
	Model tea.Model
}

// ExecAndReturnMsg suspends the TUI, runs a fastmac subcommand, then
// resumes the current view. Used for the interactive install.
type ExecAndReturnMsg struct {
	Command string
	Args    []string
}

// catalogChangedMsg is sent when the watched catalog file changes on disk.
type catalogChangedMsg struct{}

// catalogReloadedMsg carries the result of re-reading the catalog.
type catalogReloadedMsg struct {
	cat *catalog.Catalog
	err error
}

// installedMsg carries install probe results keyed by tool id.
type installedMsg struct {
	state map[string]bool
}

func pushView(model tea.Model) tea.Cmd {
	return func() tea.Msg {
		return PushViewMsg{Model: model}
	}
}

func popView() tea.Msg { return PopViewMsg{} }

func execAndReturn(command string, args []string) tea.Cmd {
	return func() tea.Msg {
		return ExecAndReturnMsg{Command: command, Args: args}
	}
}
