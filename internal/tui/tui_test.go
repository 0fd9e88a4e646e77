package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/lamchakchan/fastmac/internal/catalog"
	"github.com/lamchakchan/fastmac/internal/doctor"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()
	if theme.Primary == nil {
		t.Error("Primary color is nil")
	}
	if theme.Error == nil {
		t.Error("Error color is nil")
	}
}

func TestIsQuitFalseOnZeroValue(t *testing.T) {
	// A zero-value KeyPressMsg should not be quit.
	var msg tea.KeyPressMsg
	if IsQuit(msg) {
		t.Error("IsQuit(zero) = true, want false")
	}
}

func TestIsBackFalseOnZeroValue(t *testing.T) {
	var msg tea.KeyPressMsg
	if IsBack(msg) {
		t.Error("IsBack(zero) = true, want false")
	}
}

func TestIsToggle(t *testing.T) {
	if !isToggle(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}) {
		t.Error("space should toggle")
	}
	if !isToggle(tea.KeyPressMsg{Code: 'x', Text: "x"}) {
		t.Error("x should toggle")
	}
	if isToggle(tea.KeyPressMsg{Code: 'j', Text: "j"}) {
		t.Error("j should not toggle")
	}
}

func TestNewForm(t *testing.T) {
	theme := DefaultTheme()
	fields := []FormField{
		{Label: "Name", Required: true},
		{Label: "Value", Value: "preset"},
	}
	form := NewForm("Test Form", fields, &theme)
	if form.Title != "Test Form" {
		t.Errorf("form title = %q, want %q", form.Title, "Test Form")
	}
	if got := form.Values(); !reflect.DeepEqual(got, []string{"", "preset"}) {
		t.Errorf("Values() = %q, want [\"\" \"preset\"]", got)
	}
}

func TestFormRequiredFieldBlocksSubmit(t *testing.T) {
	theme := DefaultTheme()
	form := NewForm("F", []FormField{{Label: "A", Required: true}}, &theme)
	form, cmd := form.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("submit with an empty required field should not produce a result")
	}
	if form.done {
		t.Error("form should not be done")
	}
}

func TestListPathSuggestions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"alpha.sh", "beta.sh", ".alhidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "alps"), 0o755); err != nil {
		t.Fatal(err)
	}
	sep := string(filepath.Separator)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"prefix", dir + sep + "al", []string{dir + sep + "alpha.sh", dir + sep + "alps" + sep}},
		{"exact file", dir + sep + "alpha.sh", nil},
		{"hidden only with dot", dir + sep + ".al", []string{dir + sep + ".alhidden"}},
		{"missing dir", dir + sep + "nope" + sep + "x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := listPathSuggestions(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("listPathSuggestions(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormTabAcceptsSuggestion(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "setup.sh"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	theme := DefaultTheme()
	form := NewForm("Save", []FormField{{Label: "Path", Value: filepath.Join(dir, "se"), IsPath: true}}, &theme)
	if len(form.suggestions) != 1 {
		t.Fatalf("suggestions = %q, want one", form.suggestions)
	}
	form, _ = form.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if got, want := form.Values()[0], filepath.Join(dir, "setup.sh"); got != want {
		t.Errorf("value after tab = %q, want %q", got, want)
	}
}

func TestNewConfirm(t *testing.T) {
	theme := DefaultTheme()
	c := NewConfirm("Clear selection?", "Deselect all 3 tools.", true, &theme)
	if c.Title != "Clear selection?" {
		t.Errorf("confirm title = %q, want %q", c.Title, "Clear selection?")
	}
	if !c.Cursor {
		t.Error("confirm cursor = false, want true (default yes)")
	}
}

func TestStepperView(t *testing.T) {
	theme := DefaultTheme()
	s := NewStepper([]string{"Generate script", "Write file"}, &theme)
	for i, step := range s.Steps {
		if step.Status != StepPending {
			t.Errorf("step[%d].Status = %v, want StepPending", i, step.Status)
		}
	}
	s.SetStatus(0, StepDone)
	s.SetDetail(0, "3 tools")
	s.SetStatus(1, StepRunning)
	view := s.View()
	if !strings.Contains(view, "3 tools") {
		t.Errorf("stepper View() missing detail:\n%s", view)
	}
}

func TestStepperFinish(t *testing.T) {
	theme := DefaultTheme()
	s := NewStepper([]string{"a", "b"}, &theme)
	s.SetStatus(0, StepRunning)

	if s.Finish(0, nil) {
		t.Fatal("Finish(0) should not end a two-step sequence")
	}
	if s.Steps[1].Status != StepRunning {
		t.Errorf("step 1 = %v, want StepRunning", s.Steps[1].Status)
	}
	if !s.Finish(1, errors.New("disk full")) {
		t.Fatal("a failed step should end the sequence")
	}
	if s.Steps[1].Status != StepFailed {
		t.Errorf("step 1 = %v, want StepFailed", s.Steps[1].Status)
	}
}

func TestConfirmLabelsAndEsc(t *testing.T) {
	theme := DefaultTheme()
	c := NewConfirm("Clear selection?", "", true, &theme).WithLabels("Clear", "Keep")
	if view := c.View(); !strings.Contains(view, "Clear") || !strings.Contains(view, "Keep") {
		t.Errorf("View() missing button labels:\n%s", view)
	}
	_, cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if res, ok := cmd().(ConfirmResult); !ok || res.Confirmed {
		t.Errorf("esc = %#v, want a declined ConfirmResult", res)
	}
}

func TestViewerCopyKey(t *testing.T) {
	theme := DefaultTheme()
	v := NewViewer("Copy Test", "#!/bin/bash", &theme)
	v.SetSize(80, 24)

	model, cmd := v.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	viewer := model.(*ViewerModel)
	if !viewer.copied {
		t.Error("copied should be true after pressing y")
	}
	if cmd == nil {
		t.Error("expected a command (clipboard + tick) after pressing y")
	}

	model, _ = viewer.Update(viewerCopiedMsg{})
	viewer = model.(*ViewerModel)
	if viewer.copied {
		t.Error("copied should be false after viewerCopiedMsg")
	}
}

func TestViewerSetContentClearsLoading(t *testing.T) {
	theme := DefaultTheme()
	v := NewLoadingViewer("Loading", func() (string, error) { return "ok", nil }, &theme)
	if !v.loading || v.loader == nil {
		t.Fatal("NewLoadingViewer should be loading with a loader")
	}
	v.SetSize(80, 24)
	v.SetContent("done")
	if v.loading {
		t.Error("SetContent should clear loading")
	}
	if got := v.viewport.GetContent(); got != "done" {
		t.Errorf("content = %q, want done", got)
	}
}

func TestRenderScrollbar(t *testing.T) {
	theme := DefaultTheme()

	if bar := renderScrollbar(10, 5, 10, 0, &theme); bar != "" {
		t.Errorf("expected empty scrollbar when content fits, got %q", bar)
	}
	for _, pct := range []float64{0, 0.5, 1.0} {
		bar := renderScrollbar(10, 100, 10, pct, &theme)
		if lines := strings.Split(bar, "\n"); len(lines) != 10 {
			t.Errorf("scrollbar at %v: lines = %d, want 10", pct, len(lines))
		}
	}
}

func TestDoctorRerun(t *testing.T) {
	theme := DefaultTheme()
	m := NewDoctor(context.Background(), doctor.Options{}, &theme)
	if !m.viewer.loading {
		t.Fatal("NewDoctor should start loading")
	}
	m.Update(viewerLoadedMsg{content: "all good"})
	if m.viewer.loading {
		t.Fatal("loaded report should end loading")
	}
	if _, cmd := m.Update(tea.KeyPressMsg{Code: 'r', Text: "r"}); cmd == nil || !m.viewer.loading {
		t.Error("r should run the checks again")
	}
}

func TestHelpClosesOnQuestionMark(t *testing.T) {
	theme := DefaultTheme()
	h := NewHelp(&theme)
	if !strings.Contains(h.View().Content, "Required by something you picked") {
		t.Error("help should explain the [+] mark")
	}
	if _, cmd := h.Update(tea.KeyPressMsg{Code: '?', Text: "?"}); cmd == nil {
		t.Error("? should close help")
	}
}

func TestRenderCatalog(t *testing.T) {
	theme := DefaultTheme()
	out := renderCatalog(testCatalog(), &theme)
	for _, want := range []string{"Development (3)", "Editors (1)", "Uncategorized (1)", "requires:", "gh"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderCatalog missing %q:\n%s", want, out)
		}
	}
}

func TestCatalogViewFollowsReload(t *testing.T) {
	theme := DefaultTheme()
	m := NewCatalogView(testCatalog(), &theme)
	m.viewer.SetSize(80, 40)

	smaller := &catalog.Catalog{
		Categories: []catalog.Category{{ID: "cli", Name: "Command Line"}},
		Tools:      []catalog.Tool{{ID: "jq", Name: "jq", Category: "cli"}},
	}
	m.Update(catalogReloadedMsg{cat: smaller})
	if got := m.viewer.viewport.GetContent(); !strings.Contains(got, "Command Line (1)") {
		t.Errorf("content after reload:\n%s", got)
	}
}

func TestLauncherReusesPicker(t *testing.T) {
	theme := DefaultTheme()
	l := newLauncher(context.Background(), Options{Catalog: testCatalog()}, &theme)

	pick := launcherItem{command: "pick"}
	first, ok := l.activate(&pick)().(PushViewMsg)
	if !ok {
		t.Fatal("pick should push a view")
	}
	second := l.activate(&pick)().(PushViewMsg)
	if first.Model != second.Model {
		t.Error("launcher should push the same picker each time")
	}

	cache := launcherItem{command: "cache", args: []string{"clear"}}
	msg, ok := l.activate(&cache)().(ExecAndReturnMsg)
	if !ok || msg.Command != "cache" || !reflect.DeepEqual(msg.Args, []string{"clear"}) {
		t.Errorf("cache item = %#v, want exec of cache clear", msg)
	}
}

func TestLauncherHotkeys(t *testing.T) {
	theme := DefaultTheme()
	l := newLauncher(context.Background(), Options{Catalog: testCatalog()}, &theme)

	_, cmd := l.Update(tea.KeyPressMsg{Code: '?', Text: "?"})
	if push, ok := cmd().(PushViewMsg); !ok {
		t.Fatal("? should push a view")
	} else if _, ok := push.Model.(*HelpModel); !ok {
		t.Errorf("? pushed %T, want *HelpModel", push.Model)
	}
	if got := l.items[l.cursor].name; got != "Help" {
		t.Errorf("cursor on %q, want Help", got)
	}

	_, cmd = l.Update(tea.KeyPressMsg{Code: 'p', Text: "p"})
	cmd()
	focus(t, l.picker, "gh")
	l.picker.toggle()
	if view := l.View().Content; !strings.Contains(view, "2 tools picked") {
		t.Errorf("banner should count the picked tools:\n%s", view)
	}
}

func TestAppStackAndReload(t *testing.T) {
	app := newApp(context.Background(), Options{Catalog: testCatalog(), StartInPicker: true})
	picker, ok := app.stack[0].(*PickerModel)
	if !ok {
		t.Fatalf("stack[0] = %T, want *PickerModel", app.stack[0])
	}
	focus(t, picker, "gh")
	picker.toggle()

	theme := DefaultTheme()
	app.Update(PushViewMsg{Model: NewHelp(&theme)})
	if len(app.stack) != 2 {
		t.Fatalf("stack len = %d, want 2", len(app.stack))
	}

	// The picker is under the help view and still follows the reload.
	reloaded := testCatalog()
	app.Update(catalogReloadedMsg{cat: reloaded})
	if picker.cat != reloaded {
		t.Error("picker should hold the reloaded catalog")
	}
	if got := picker.SelectedIDs(); !reflect.DeepEqual(got, []string{"git", "gh"}) {
		t.Errorf("SelectedIDs() after reload = %v, want [git gh]", got)
	}

	app.Update(PopViewMsg{})
	if len(app.stack) != 1 {
		t.Fatalf("stack len after pop = %d, want 1", len(app.stack))
	}
	if _, cmd := app.Update(PopViewMsg{}); cmd == nil {
		t.Error("popping the last view should quit")
	}
}

func TestIsAccessible(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if !IsAccessible() {
		t.Error("IsAccessible() = false with NO_COLOR set")
	}
}
