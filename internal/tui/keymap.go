package tui

import (
	tea "charm.land/bubbletea/v2"
)

const (
	keyEnter = "enter"
	keyCtrlC = "ctrl+c"
	keySpace = "space"
	keyEsc   = "esc"
)

// IsQuit returns true if the key message is a quit key (q or ctrl+c).
func IsQuit(msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "q", keyCtrlC:
		return true
	}
	return false
}

// IsBack returns true if the key message is a back key (esc).
func IsBack(msg tea.KeyPressMsg) bool {
	return msg.String() == keyEsc
}

// isToggle matches the space bar however the terminal reports it.
func isToggle(msg tea.KeyPressMsg) bool {
	s := msg.String()
	return s == keySpace || s == " " || s == "x"
}
