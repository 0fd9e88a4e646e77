package tui

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/lamchakchan/fastmac/internal/catalog"
	"github.com/lamchakchan/fastmac/internal/script"
)

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Categories: []catalog.Category{
			{ID: "editors", Name: "Editors"},
			{ID: "dev", Name: "Development"},
		},
		Tools: []catalog.Tool{
			{ID: "git", Name: "Git", Category: "dev", Description: "Version control"},
			{ID: "gh", Name: "GitHub CLI", Category: "dev", Requires: []string{"git"}},
			{ID: "vscode", Name: "VS Code", Category: "editors", Cask: true, Requires: []string{"git"}},
			{ID: "jq", Name: "jq", Category: "dev", Description: "JSON processor"},
			{ID: "stray", Name: "Stray", Category: "gone"},
		},
	}
}

func newTestPicker(t *testing.T, cat *catalog.Catalog) *PickerModel {
	t.Helper()
	theme := DefaultTheme()
	m := NewPicker(context.Background(), cat, &theme)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

// focus moves the cursor to the row of tool id.
func focus(t *testing.T, m *PickerModel, id string) {
	t.Helper()
	for i, r := range m.rows {
		if r.tool != nil && r.tool.ID == id {
			m.cursor = i
			return
		}
	}
	t.Fatalf("tool %q not in visible rows", id)
}

func press(m *PickerModel, key tea.KeyPressMsg) tea.Cmd {
	_, cmd := m.Update(key)
	return cmd
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var keySpaceMsg = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}

func TestPickerRowsGroupedByCategory(t *testing.T) {
	m := newTestPicker(t, testCatalog())

	var got []string
	for _, r := range m.rows {
		if r.tool == nil {
			got = append(got, "#"+m.groups[r.group].name)
		} else {
			got = append(got, r.tool.ID)
		}
	}
	want := []string{"#Development", "git", "gh", "jq", "#Editors", "vscode"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}
	if m.currentTool() == nil || m.currentTool().ID != "git" {
		t.Errorf("cursor should start on the first tool, got %v", m.currentTool())
	}
}

func TestPickerHidesToolsWithoutCategory(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	for _, r := range m.rows {
		if r.tool != nil && r.tool.ID == "stray" {
			t.Fatal("stray has no valid category and should not be offered")
		}
	}
	m.search.SetValue("stray")
	m.rebuildRows()
	if len(m.rows) != 0 {
		t.Errorf("search found %d rows for a hidden tool", len(m.rows))
	}
}

func TestPickerCursorSkipsHeaders(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	focus(t, m, "jq")
	press(m, keyRune('j'))
	if got := m.currentTool().ID; got != "vscode" {
		t.Errorf("after down from jq: %q, want vscode", got)
	}
	press(m, keyRune('k'))
	if got := m.currentTool().ID; got != "jq" {
		t.Errorf("after up: %q, want jq", got)
	}
	press(m, tea.KeyPressMsg{Code: 'G', Text: "G"})
	if got := m.currentTool().ID; got != "vscode" {
		t.Errorf("after G: %q, want vscode", got)
	}
	press(m, keyRune('g'))
	if got := m.currentTool().ID; got != "git" {
		t.Errorf("after g: %q, want git", got)
	}
}

func TestPickerSelectPullsRequirements(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	focus(t, m, "gh")
	press(m, keySpaceMsg)

	if !m.selected["gh"] || !m.selected["git"] {
		t.Fatalf("selected = %v, want gh and git", m.selected)
	}
	if !m.manual["gh"] || m.manual["git"] {
		t.Errorf("manual = %v, want only gh", m.manual)
	}
	want := []string{"Auto-selected Git (required by GitHub CLI)"}
	if !reflect.DeepEqual(m.notices, want) {
		t.Errorf("notices = %q, want %q", m.notices, want)
	}
	if got := m.statusLine(); !strings.HasPrefix(got, "2 tools selected") {
		t.Errorf("statusLine() = %q", got)
	}
	if k, n := m.groupCount(0); k != 2 || n != 3 {
		t.Errorf("Development count = %d/%d, want 2/3", k, n)
	}
}

func TestPickerDeselectRequirementEvictsDependents(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	focus(t, m, "gh")
	press(m, keySpaceMsg)
	focus(t, m, "vscode")
	press(m, keySpaceMsg)

	// git was only ever pulled in; unchecking it still wins.
	focus(t, m, "git")
	press(m, keySpaceMsg)

	if len(m.selected) != 0 {
		t.Errorf("selected = %v, want empty", m.selected)
	}
	want := []string{
		"Deselected GitHub CLI (requires Git)",
		"Deselected VS Code (requires Git)",
	}
	if !reflect.DeepEqual(m.notices, want) {
		t.Errorf("notices = %q, want %q", m.notices, want)
	}
	if got := m.statusLine(); got != "No tools selected" {
		t.Errorf("statusLine() = %q, want No tools selected", got)
	}
}

func TestPickerDeselectReleasesRequirements(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	focus(t, m, "gh")
	press(m, keySpaceMsg)
	focus(t, m, "jq")
	press(m, keySpaceMsg)
	if got := m.statusLine(); !strings.HasPrefix(got, "3 tools selected") {
		t.Errorf("statusLine() = %q", got)
	}

	focus(t, m, "gh")
	press(m, keySpaceMsg)
	if m.selected["gh"] || m.selected["git"] {
		t.Errorf("gh and git should be released, selected = %v", m.selected)
	}
	if len(m.notices) != 0 {
		t.Errorf("releasing a requirement should be silent, notices = %q", m.notices)
	}
	if got := m.statusLine(); !strings.HasPrefix(got, "1 tool selected") {
		t.Errorf("statusLine() = %q", got)
	}
}

func TestPickerSearch(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	press(m, keyRune('/'))
	if !m.searching {
		t.Fatal("/ should start searching")
	}
	for _, r := range "json" {
		press(m, keyRune(r))
	}
	if len(m.rows) != 2 || m.rows[1].tool.ID != "jq" {
		t.Fatalf("rows after search = %+v, want header and jq", m.rows)
	}

	// Category names match too.
	m.search.SetValue("editors")
	m.rebuildRows()
	if len(m.rows) != 2 || m.rows[1].tool.ID != "vscode" {
		t.Fatalf("rows for category search = %+v", m.rows)
	}

	press(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.searching || m.search.Value() != "" {
		t.Error("esc should clear the search")
	}
	if len(m.rows) != 6 {
		t.Errorf("rows after clearing = %d, want 6", len(m.rows))
	}
}

func TestPickerSearchNoMatches(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	m.search.SetValue("zzz")
	m.rebuildRows()
	if m.cursor != -1 || m.currentTool() != nil {
		t.Errorf("cursor = %d, want -1", m.cursor)
	}
	m.toggle()
	if !strings.Contains(m.View().Content, "No tools match.") {
		t.Error("view should say nothing matches")
	}
}

func TestPickerClearAsksFirst(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	focus(t, m, "vscode")
	press(m, keySpaceMsg)

	press(m, keyRune('c'))
	if m.confirm == nil {
		t.Fatal("c should open a confirmation")
	}
	msg := press(m, keyRune('n'))()
	m.Update(msg)
	if m.confirm != nil || len(m.selected) != 2 {
		t.Fatalf("declining should keep the selection, selected = %v", m.selected)
	}

	press(m, keyRune('c'))
	m.Update(press(m, keyRune('y'))())
	if len(m.selected) != 0 || len(m.graph.SelectedSet()) != 0 {
		t.Errorf("selection after clear = %v", m.selected)
	}
	if got := m.notices[len(m.notices)-1]; got != "Cleared 2 tools" {
		t.Errorf("notice = %q, want Cleared 2 tools", got)
	}
}

func TestPickerActionsNeedASelection(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	for _, k := range []tea.KeyPressMsg{keyRune('p'), keyRune('w'), {Code: tea.KeyEnter}} {
		if cmd := press(m, k); cmd != nil {
			t.Errorf("%s with nothing selected returned a command", k.String())
		}
		if !m.noticeErr {
			t.Errorf("%s with nothing selected should warn", k.String())
		}
	}
}

func TestPickerInstallRunsSubcommand(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	focus(t, m, "gh")
	press(m, keySpaceMsg)

	msg, ok := press(m, tea.KeyPressMsg{Code: tea.KeyEnter})().(ExecAndReturnMsg)
	if !ok {
		t.Fatal("enter should run the install subcommand")
	}
	if msg.Command != "install" || !reflect.DeepEqual(msg.Args, []string{"git", "gh"}) {
		t.Errorf("exec = %+v, want install git gh", msg)
	}
}

func TestPickerPreviewPushesScript(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	focus(t, m, "vscode")
	press(m, keySpaceMsg)

	push, ok := press(m, keyRune('p'))().(PushViewMsg)
	if !ok {
		t.Fatal("p should push the preview")
	}
	v := push.Model.(*ViewerModel)
	content := v.viewport.GetContent()
	if !strings.Contains(content, "brew install --cask vscode") {
		t.Errorf("preview missing cask install:\n%s", content)
	}
	if strings.Index(content, "brew install git") > strings.Index(content, "brew install --cask vscode") {
		t.Error("git should install before vscode")
	}
}

func TestPickerInstalledBadges(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	m.Update(installedMsg{state: map[string]bool{"git": true, "gh": false, "vscode": false, "jq": true, "stray": false}})
	if m.probing {
		t.Error("probing should stop when results arrive")
	}
	if got := m.notices[0]; got != "2 of 5 tools already installed" {
		t.Errorf("notice = %q", got)
	}
	if m.installed == nil || !m.installed["git"] {
		t.Error("installed state not stored")
	}
}

func TestPickerReloadKeepsManualSelections(t *testing.T) {
	m := newTestPicker(t, testCatalog())
	focus(t, m, "gh")
	press(m, keySpaceMsg)
	focus(t, m, "jq")
	press(m, keySpaceMsg)

	next := testCatalog()
	next.Tools = next.Tools[:3] // jq and stray are gone
	m.Update(catalogReloadedMsg{cat: next})

	if got := m.SelectedIDs(); !reflect.DeepEqual(got, []string{"git", "gh"}) {
		t.Errorf("SelectedIDs() = %v, want [git gh]", got)
	}
	if !m.manual["gh"] || m.manual["git"] {
		t.Errorf("manual = %v, want only gh", m.manual)
	}
	want := []string{"Catalog reloaded (3 tools)", "No longer in the catalog: jq"}
	if !reflect.DeepEqual(m.notices, want) {
		t.Errorf("notices = %q, want %q", m.notices, want)
	}

	// The same catalog delivered twice is not reloaded again.
	m.notices = nil
	m.Update(catalogReloadedMsg{cat: next})
	if m.notices != nil {
		t.Errorf("duplicate reload produced notices %q", m.notices)
	}
}

func TestPickerCyclicCatalogStillUsable(t *testing.T) {
	cat := &catalog.Catalog{
		Categories: []catalog.Category{{ID: "c", Name: "Loop"}},
		Tools: []catalog.Tool{
			{ID: "a", Name: "A", Category: "c", Requires: []string{"b"}},
			{ID: "b", Name: "B", Category: "c", Requires: []string{"a"}},
		},
	}
	m := newTestPicker(t, cat)
	if !m.noticeErr || !strings.Contains(m.notices[0], "a -> b -> a") {
		t.Errorf("notices = %q, want cycle warning", m.notices)
	}
	focus(t, m, "a")
	press(m, keySpaceMsg)
	if !m.selected["a"] || !m.selected["b"] {
		t.Errorf("selected = %v, want a and b", m.selected)
	}
}

func TestPickerScrollKeepsCursorVisible(t *testing.T) {
	cat := &catalog.Catalog{Categories: []catalog.Category{{ID: "c", Name: "Many"}}}
	for i := 0; i < 40; i++ {
		id := string(rune('a'+i/26)) + string(rune('a'+i%26))
		cat.Tools = append(cat.Tools, catalog.Tool{ID: id, Name: id, Category: "c"})
	}
	m := newTestPicker(t, cat)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: pickerOverhead + 10})

	press(m, keyRune('f'))
	if got := m.cursor; got != 11 {
		t.Errorf("cursor after page down = %d, want 11", got)
	}
	if m.cursor < m.offset || m.cursor >= m.offset+m.visibleRows() {
		t.Errorf("cursor %d outside window [%d, %d)", m.cursor, m.offset, m.offset+m.visibleRows())
	}
	press(m, keyRune('b'))
	if m.cursor != 1 || m.offset != 0 {
		t.Errorf("after page up: cursor=%d offset=%d, want 1 and 0", m.cursor, m.offset)
	}
}

func TestSaveWritesScript(t *testing.T) {
	theme := DefaultTheme()
	now := func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	m := newSave(testCatalog(), []string{"gh"}, &theme, now)

	if got := m.form.Values()[0]; got != script.Filename(now()) {
		t.Errorf("default path = %q, want %q", got, script.Filename(now()))
	}

	path := filepath.Join(t.TempDir(), "setup.sh")
	m.Update(FormResult{Values: []string{path}})
	if !m.saving {
		t.Fatal("submitting the form should start saving")
	}

	_, cmd := m.Update(m.generate()())
	if cmd == nil {
		t.Fatal("generate should be followed by the write step")
	}
	m.Update(cmd())

	if !m.done || m.err != nil {
		t.Fatalf("done=%v err=%v", m.done, m.err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("script not written: %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("script mode = %v, want executable", info.Mode())
	}
	if m.stepper.Steps[0].Status != StepDone || m.stepper.Steps[1].Status != StepDone {
		t.Errorf("steps = %+v, want both done", m.stepper.Steps)
	}
	if got := m.stepper.Steps[0].Detail; got != "2 tools" {
		t.Errorf("generate detail = %q, want 2 tools", got)
	}

	if _, cmd := m.Update(keyRune('x')); cmd == nil {
		t.Error("any key after saving should pop the view")
	}
}

func TestSaveReportsWriteFailure(t *testing.T) {
	theme := DefaultTheme()
	m := NewSave(testCatalog(), []string{"jq"}, &theme)
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(blocker, "setup.sh")
	m.Update(FormResult{Values: []string{path}})
	_, cmd := m.Update(m.generate()())
	m.Update(cmd())
	if m.err == nil {
		t.Fatal("writing below a regular file should fail")
	}
	if m.stepper.Steps[1].Status != StepFailed {
		t.Errorf("write step = %v, want failed", m.stepper.Steps[1].Status)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/setup.sh"); got != filepath.Join(home, "setup.sh") {
		t.Errorf("expandHome(~/setup.sh) = %q", got)
	}
	if got := expandHome("rel/setup.sh"); got != "rel/setup.sh" {
		t.Errorf("expandHome(rel) = %q", got)
	}
}
