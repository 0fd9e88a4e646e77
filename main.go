package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"

	"github.com/lamchakchan/fastmac/internal/catalog"
	"github.com/lamchakchan/fastmac/internal/config"
	"github.com/lamchakchan/fastmac/internal/doctor"
	"github.com/lamchakchan/fastmac/internal/install"
	"github.com/lamchakchan/fastmac/internal/listing"
	"github.com/lamchakchan/fastmac/internal/logging"
	"github.com/lamchakchan/fastmac/internal/platform"
	"github.com/lamchakchan/fastmac/internal/script"
	"github.com/lamchakchan/fastmac/internal/tui"
)

// version is set via -ldflags at build time
var version = "dev"

const helpText = `
fastmac - pick developer tools, get an install script

Usage:
  fastmac [command] [options]

Commands:
  (none)                         Open the interactive picker (on a terminal)
  pick                           Open the picker directly
  list [--json]                  List every tool in the catalog
  deps <tool-id>                 Show what a tool requires, in install order
  generate <tool-id>...          Write an install script for the given tools
    [--out PATH]                 Script path (default: fastmac-setup-DATE.sh)
    [--stdout]                   Print the script instead of writing it
    [--no-update]                Skip the Homebrew bootstrap and brew update
  install <tool-id>...           Generate and run an install script
    [--yes]                      Do not ask for confirmation
    [--keep]                     Keep the script after it runs
  doctor                         Check prerequisites and catalog health
  cache clear                    Drop cached catalog documents

Options:
  --help, -h       Show this help message
  --version, -v    Show version

Environment (also read from ./.env):
  FASTMAC_CATALOG_URL      Document store base URL (default ` + config.DefaultCatalogURL + `)
  FASTMAC_CATALOG_FILE     Read the catalog from a JSON or YAML file instead
  FASTMAC_CACHE_DIR        Catalog cache directory (empty disables the cache)
  FASTMAC_CACHE_TTL        How long cached documents stay fresh (default 5m)
  FASTMAC_FETCH_RETRIES    Attempts per catalog request (default 3)
  FASTMAC_LOG_LEVEL        debug, info, warn or error (default warn)
  FASTMAC_LOG_FILE         Append logs to this file instead of stderr

Requirements are pulled in automatically: asking for gh also installs git.

Examples:
  fastmac
  fastmac list
  fastmac deps vscode
  fastmac generate git gh vscode --out ~/setup.sh
  fastmac install --yes jq ripgrep
`

func main() {
	platform.InitColor()
	args := os.Args[1:]

	if len(args) > 0 {
		switch args[0] {
		case "--help", "-h", "help":
			fmt.Print(helpText)
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("fastmac %s\n", version)
			os.Exit(0)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, cfg, args)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, args []string) int {
	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	interactive := command == "pick" || (command == "" && platform.IsTerminal(os.Stdin) && platform.IsTerminal(os.Stdout))

	closeLog, err := initLogging(cfg, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	if command == "" && !interactive {
		fmt.Print(helpText)
		return 0
	}

	switch command {
	case "", "pick", "list", "deps", "generate", "install", "doctor":
	case "cache":
		return exitCode(cacheCommand(ctx, cfg, args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		fmt.Print(helpText)
		return 1
	}

	src, closeSrc := newSource(ctx, cfg)
	defer closeSrc()

	if command == "doctor" {
		res, err := doctor.Run(ctx, doctor.Options{Source: src, CacheDir: cfg.CacheDir})
		if err != nil {
			return exitCode(err)
		}
		if !res.Healthy() {
			return 1
		}
		return 0
	}

	cat, origin, err := loadCatalog(ctx, src)
	if err != nil {
		return exitCode(err)
	}
	logging.Info("Main", "Loaded %d tools from %s", len(cat.Tools), origin)

	switch command {
	case "", "pick":
		if tui.IsAccessible() {
			listing.Table(os.Stdout, cat)
			return 0
		}
		return exitCode(tui.Run(ctx, tuiOptions(cfg, src, cat, origin, command == "pick")))
	case "list":
		if hasFlag(args[1:], "--json") {
			return exitCode(listing.JSON(os.Stdout, cat))
		}
		listing.Table(os.Stdout, cat)
		return 0
	case "deps":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: fastmac deps <tool-id>")
			return 1
		}
		return exitCode(listing.Deps(os.Stdout, cat, args[1]))
	case "generate":
		return exitCode(generateCommand(cat, args[1:]))
	case "install":
		return exitCode(installCommand(ctx, cat, args[1:]))
	}
	return 0
}

// initLogging sends logs to the configured file, to stderr for plain
// commands, or nowhere while the TUI owns the terminal.
func initLogging(cfg *config.Config, interactive bool) (func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		logging.Init(cfg.LogLevel, f)
		return func() { f.Close() }, nil
	}
	if interactive {
		logging.Discard()
	} else {
		logging.Init(cfg.LogLevel, os.Stderr)
	}
	return func() {}, nil
}

// newSource wires the file, cache and remote client from cfg. A cache that
// cannot be opened is skipped rather than failing the command.
func newSource(ctx context.Context, cfg *config.Config) (*catalog.Source, func()) {
	client := catalog.NewClient(cfg.CatalogURL)
	client.Retries = cfg.FetchRetries
	src := &catalog.Source{File: cfg.CatalogFile, Client: client}

	if path := cfg.CachePath(); path != "" && cfg.CatalogFile == "" {
		cache, err := catalog.OpenCache(ctx, path, cfg.CacheTTL)
		if err != nil {
			logging.Warn("Main", "Catalog cache unavailable: %v", err)
		} else {
			src.Cache = cache
			return src, func() { cache.Close() }
		}
	}
	return src, func() {}
}

// loadCatalog shows a spinner on a terminal while the catalog is fetched.
func loadCatalog(ctx context.Context, src *catalog.Source) (*catalog.Catalog, catalog.Origin, error) {
	if !platform.IsTerminal(os.Stderr) || !src.NeedsFetch(ctx) {
		return src.Load(ctx)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Fetching tool catalog..."
	s.Start()
	cat, origin, err := src.Load(ctx)
	if err != nil {
		s.FinalMSG = platform.Red("Failed to fetch the tool catalog") + "\n"
	}
	s.Stop()
	return cat, origin, err
}

func tuiOptions(cfg *config.Config, src *catalog.Source, cat *catalog.Catalog, origin catalog.Origin, pick bool) tui.Options {
	opts := tui.Options{
		Version:       version,
		Catalog:       cat,
		Origin:        origin,
		Doctor:        doctor.Options{Source: src, CacheDir: cfg.CacheDir},
		StartInPicker: pick,
	}
	if cfg.CatalogFile != "" {
		opts.WatchPath = cfg.CatalogFile
		opts.Reload = func(context.Context) (*catalog.Catalog, error) {
			return catalog.LoadFile(cfg.CatalogFile)
		}
	}
	return opts
}

func generateCommand(cat *catalog.Catalog, args []string) error {
	var (
		out      string
		toStdout bool
		opts     script.Options
		ids      []string
	)
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--out":
			if i+1 >= len(args) {
				return errors.New("--out needs a path")
			}
			i++
			out = args[i]
		case "--stdout":
			toStdout = true
		case "--no-update":
			opts.SkipUpdate = true
		default:
			ids = append(ids, args[i])
		}
	}

	s, err := script.Generate(cat, ids, opts)
	if err != nil {
		return err
	}
	if toStdout {
		_, err := io.WriteString(os.Stdout, s.Content)
		return err
	}
	if out == "" {
		out = script.Filename(s.Generated)
	}
	if err := script.Write(out, s); err != nil {
		return err
	}

	platform.PrintOK(os.Stdout, fmt.Sprintf("Wrote %s (%d tools, about %d min)", out, len(s.Steps), script.EstimatedMinutes(len(s.Steps))))
	fmt.Println("  Run it with:")
	platform.PrintCommand(os.Stdout, "bash "+out)
	return nil
}

func installCommand(ctx context.Context, cat *catalog.Catalog, args []string) error {
	var (
		opts install.Options
		ids  []string
	)
	for _, a := range args {
		switch a {
		case "--yes", "-y":
			opts.Yes = true
		case "--keep":
			opts.Keep = true
		default:
			ids = append(ids, a)
		}
	}

	s, err := script.Generate(cat, ids, script.Options{})
	if err != nil {
		return err
	}
	return install.Run(ctx, os.Stdout, s, opts)
}

func cacheCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) == 0 || args[0] != "clear" {
		return errors.New("usage: fastmac cache clear")
	}
	path := cfg.CachePath()
	if path == "" {
		platform.PrintWarn(os.Stdout, "Catalog cache is disabled ("+config.EnvCacheDir+" is empty)")
		return nil
	}
	cache, err := catalog.OpenCache(ctx, path, cfg.CacheTTL)
	if err != nil {
		return err
	}
	defer cache.Close()

	n, err := cache.Clear(ctx)
	if err != nil {
		return err
	}
	platform.PrintOK(os.Stdout, fmt.Sprintf("Removed %d cached documents from %s", n, path))
	return nil
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// exitCode prints err and maps it to a process exit status. A failed
// install script passes its own status through.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var scriptErr *install.ScriptError
	if errors.As(err, &scriptErr) && scriptErr.ExitCode > 0 {
		return scriptErr.ExitCode
	}
	return 1
}
