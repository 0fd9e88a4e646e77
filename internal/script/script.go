// Package script renders the bash installer for a set of selected tools.
package script

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/google/uuid"

	"github.com/lamchakchan/fastmac/internal/catalog"
	"github.com/lamchakchan/fastmac/internal/platform"
	"github.com/lamchakchan/fastmac/internal/selection"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// ErrNoTools is returned when generation is asked for an empty selection.
var ErrNoTools = errors.New("no tools selected")

// UnknownToolsError lists requested ids the catalog does not define.
type UnknownToolsError struct {
	IDs []string
}

func (e *UnknownToolsError) Error() string {
	return fmt.Sprintf("unknown tools: %s", strings.Join(e.IDs, ", "))
}

// Step is one tool's install block.
type Step struct {
	ID           string
	Name         string
	CheckCommand string
	PreInstall   []string
	Command      string
	PostInstall  []string
}

// Script is a rendered installer.
type Script struct {
	ID        string
	Generated time.Time
	Steps     []Step
	Content   string
}

// Names returns the display names of the tools in install order.
func (s *Script) Names() []string {
	out := make([]string, len(s.Steps))
	for i, st := range s.Steps {
		out[i] = st.Name
	}
	return out
}

// Options tune generation. The zero value is usable.
type Options struct {
	Now        func() time.Time // defaults to time.Now
	SkipUpdate bool             // omit the Homebrew bootstrap and brew update
}

// Generate renders an installer for ids. Requirements of the requested
// tools are added, and tools are installed after what they require.
func Generate(cat *catalog.Catalog, ids []string, opts Options) (*Script, error) {
	if len(ids) == 0 {
		return nil, ErrNoTools
	}

	g, err := selection.NewUnchecked(cat.Nodes())
	if err != nil {
		return nil, err
	}
	var unknown []string
	for _, id := range ids {
		if !g.Known(selection.ToolID(id)) {
			unknown = append(unknown, id)
			continue
		}
		g.Select(selection.ToolID(id), true)
	}
	if len(unknown) > 0 {
		return nil, &UnknownToolsError{IDs: unknown}
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	s := &Script{
		ID:        uuid.NewString(),
		Generated: now(),
	}
	for _, id := range g.InstallOrder(g.SelectedSet()) {
		t, _ := cat.Tool(string(id))
		s.Steps = append(s.Steps, stepFor(t))
	}

	content, err := render(s, !opts.SkipUpdate)
	if err != nil {
		return nil, err
	}
	s.Content = content
	return s, nil
}

func stepFor(t *catalog.Tool) Step {
	st := Step{
		ID:           t.ID,
		Name:         t.Name,
		CheckCommand: t.CheckCommand,
		PreInstall:   t.PreInstall,
		PostInstall:  t.PostInstall,
	}
	switch {
	case t.IsCustom():
		st.Command = t.InstallCommand
	default:
		pkg := t.BrewPackage
		if pkg == "" {
			pkg = t.ID
		}
		if t.Cask {
			st.Command = "brew install --cask " + pkg
		} else {
			st.Command = "brew install " + pkg
		}
	}
	return st
}

func render(s *Script, homebrew bool) (string, error) {
	var tmpl *template.Template
	funcs := sprig.TxtFuncMap()
	funcs["shq"] = shellQuote
	funcs["comment"] = commentText
	funcs["include"] = func(name string, data any) (string, error) {
		var buf bytes.Buffer
		err := tmpl.ExecuteTemplate(&buf, name, data)
		return buf.String(), err
	}

	tmpl, err := template.New("setup.sh.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return "", fmt.Errorf("parsing script template: %w", err)
	}

	data := struct {
		*Script
		Names    []string
		Homebrew bool
	}{Script: s, Names: s.Names(), Homebrew: homebrew}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "setup.sh.tmpl", data); err != nil {
		return "", fmt.Errorf("rendering script: %w", err)
	}
	return buf.String(), nil
}

// shellQuote wraps s in single quotes for bash.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// commentText folds s onto one line so it cannot leave a # comment.
func commentText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Filename is the default name for a script generated at now.
func Filename(now time.Time) string {
	return "fastmac-setup-" + now.Format("2006-01-02") + ".sh"
}

// EstimatedMinutes is the rough install time shown for n tools: half a
// minute each with a five minute floor.
func EstimatedMinutes(n int) int {
	if n <= 0 {
		return 0
	}
	m := int(math.Ceil(float64(n) * 0.5))
	if m < 5 {
		return 5
	}
	return m
}

// Write saves the script as an executable file.
func Write(path string, s *Script) error {
	return platform.WriteExecutable(path, []byte(s.Content))
}
