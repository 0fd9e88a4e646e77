package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	tea "charm.land/bubbletea/v2"

	"github.com/lamchakchan/fastmac/internal/catalog"
	"github.com/lamchakchan/fastmac/internal/doctor"
	"github.com/lamchakchan/fastmac/internal/logging"
)

// Options configures the interactive session.
type Options struct {
	Version string
	Catalog *catalog.Catalog
	Origin  catalog.Origin

	// Reload re-reads the catalog after WatchPath changes. Watching is off
	// when either is empty.
	Reload    func(ctx context.Context) (*catalog.Catalog, error)
	WatchPath string

	Doctor doctor.Options

	// StartInPicker opens the picker directly instead of the launcher.
	StartInPicker bool
}

// appModel is the root model that manages the navigation stack.
type appModel struct {
	ctx     context.Context
	stack   []tea.Model // view navigation stack
	width   int
	height  int
	theme   Theme
	opts    Options
	changes chan struct{}
}

// execDoneMsg is delivered when an inline subcommand exits.
type execDoneMsg struct {
	command string
	err     error
}

// Run starts the interactive TUI. It is called when fastmac is invoked with
// no arguments on a TTY, or with "pick". Respects NO_COLOR and ACCESSIBLE.
func Run(ctx context.Context, opts Options) error {
	// Accessible mode has no TUI; the caller falls back to plain output.
	if IsAccessible() {
		return nil
	}
	if opts.Catalog == nil {
		return fmt.Errorf("tui: no catalog")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app := newApp(ctx, opts)
	if opts.WatchPath != "" && opts.Reload != nil {
		app.changes = make(chan struct{}, 1)
		go func() {
			err := catalog.Watch(ctx, opts.WatchPath, func() {
				select {
				case app.changes <- struct{}{}:
				default:
				}
			})
			if err != nil && ctx.Err() == nil {
				logging.Error("TUI", err, "Catalog watch stopped")
			}
		}()
	}

	p := tea.NewProgram(app)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func newApp(ctx context.Context, opts Options) *appModel {
	app := &appModel{
		ctx:   ctx,
		theme: DefaultTheme(),
		opts:  opts,
	}
	if opts.StartInPicker {
		app.stack = []tea.Model{NewPicker(ctx, opts.Catalog, &app.theme)}
	} else {
		app.stack = []tea.Model{newLauncher(ctx, opts, &app.theme)}
	}
	return app
}

func (m *appModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if len(m.stack) > 0 {
		cmds = append(cmds, m.stack[len(m.stack)-1].Init())
	}
	if m.changes != nil {
		cmds = append(cmds, m.waitForChange())
	}
	return tea.Batch(cmds...)
}

// waitForChange blocks until the watcher reports a change or the session ends.
func (m *appModel) waitForChange() tea.Cmd {
	ch, ctx := m.changes, m.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return catalogChangedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *appModel) reloadCatalog() tea.Cmd {
	reload, ctx := m.opts.Reload, m.ctx
	return func() tea.Msg {
		cat, err := reload(ctx)
		return catalogReloadedMsg{cat: cat, err: err}
	}
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if len(m.stack) > 0 {
			current := m.stack[len(m.stack)-1]
			updated, cmd := current.Update(msg)
			m.stack[len(m.stack)-1] = updated
			return m, cmd
		}
		return m, nil

	case PushViewMsg:
		m.stack = append(m.stack, msg.Model)
		initCmd := msg.Model.Init()
		// Forward current window size to newly pushed view.
		var sizeCmd tea.Cmd
		if m.width > 0 && m.height > 0 {
			size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
			updated, cmd := msg.Model.Update(size)
			m.stack[len(m.stack)-1] = updated
			sizeCmd = cmd
		}
		return m, tea.Batch(initCmd, sizeCmd)

	case PopViewMsg:
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
		} else {
			return m, tea.Quit
		}
		return m, nil

	case ExecAndReturnMsg:
		// Run the command inline; TUI resumes current view when done.
		return m, m.execInline(msg.Command, msg.Args)

	case catalogChangedMsg:
		logging.Info("TUI", "Catalog file changed, reloading")
		return m, tea.Batch(m.reloadCatalog(), m.waitForChange())

	case catalogReloadedMsg:
		if msg.err != nil {
			logging.Error("TUI", msg.err, "Catalog reload failed")
		} else {
			m.opts.Catalog = msg.cat
		}
		// Every view on the stack hears about the reload, not just the top.
		var cmds []tea.Cmd
		for i, v := range m.stack {
			updated, cmd := v.Update(msg)
			m.stack[i] = updated
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	// Forward all other messages to the current view
	if len(m.stack) > 0 {
		current := m.stack[len(m.stack)-1]
		updated, cmd := current.Update(msg)
		m.stack[len(m.stack)-1] = updated
		return m, cmd
	}

	return m, nil
}

func (m *appModel) View() tea.View {
	var v tea.View
	v.AltScreen = true

	if len(m.stack) > 0 {
		inner := m.stack[len(m.stack)-1].View()
		v.Content = inner.Content
	}
	return v
}

// execInline runs a fastmac subcommand via ExecProcess; the TUI resumes
// when it exits.
func (m *appModel) execInline(command string, args []string) tea.Cmd {
	exe, err := os.Executable()
	if err != nil {
		return func() tea.Msg { return execDoneMsg{command: command, err: err} }
	}
	cmdArgs := append([]string{command}, args...)
	cmd := exec.Command(exe, cmdArgs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return execDoneMsg{command: command, err: err}
	})
}
