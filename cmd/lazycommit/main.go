// Package main is the entry point for the lazycommit application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazycommit/internal/app"
	"github.com/chmouel/lazycommit/internal/buildinfo"
	"github.com/chmouel/lazycommit/internal/commit"
	"github.com/chmouel/lazycommit/internal/config"
	"github.com/chmouel/lazycommit/internal/git"
	"github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/theme"
	"github.com/chmouel/lazycommit/internal/tui"
	urfavecli "github.com/urfave/cli/v2"
	"golang.org/x/term"
)

var (
	version   = "dev"
	commitSHA = "none"
	date      = "unknown"
	builtBy   = "unknown"
)

func main() {
	buildinfo.Set(version, commitSHA, date, builtBy)
	buildinfo.Enrich()

	// -v belongs to --verbose.
	urfavecli.VersionFlag = &urfavecli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}

	cliApp := &urfavecli.App{
		Name:                 "lazycommit",
		Usage:                "Partition uncommitted changes into coherent commits and apply them",
		Version:              buildinfo.Version(),
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// newNotifier returns the human-facing progress printer. Severity colors are
// dropped when stderr is not a terminal.
func newNotifier(thm *theme.Theme) commit.NotifyFn {
	colored := term.IsTerminal(int(os.Stderr.Fd()))

	warnStyle := lipgloss.NewStyle().Foreground(thm.WarnFg)
	errStyle := lipgloss.NewStyle().Foreground(thm.ErrorFg)

	return func(message, severity string) {
		if colored {
			switch severity {
			case "warning":
				message = warnStyle.Render(message)
			case "error":
				message = errStyle.Render(message)
			}
		}
		fmt.Fprintln(os.Stderr, message)
	}
}

func setupDebugLog(c *urfavecli.Context, cfg *config.AppConfig) {
	path := c.String("debug-log")
	if path == "" {
		path = cfg.DebugLog
	}
	if path == "" {
		// Nothing configured, drop buffered logs.
		_ = log.SetFile("")
		return
	}
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

func run(c *urfavecli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer func() { _ = log.Close() }()

	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	repoPath, err := git.ResolveToplevel(ctx, c.String("repo-path"))
	if err != nil {
		return urfavecli.Exit(fmt.Sprintf("Failed to resolve git repo top-level for %q: %v", c.String("repo-path"), err), 1)
	}

	config.ApplyGitConfig(cfg, config.DetermineRepoPath(repoPath))
	if overrides := c.StringSlice("config"); len(overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(overrides); err != nil {
			return urfavecli.Exit(fmt.Sprintf("Error applying config overrides: %v", err), 1)
		}
	}

	// Flags override every config source.
	if c.Bool("push") {
		cfg.Push = true
	}
	if c.Bool("watch") {
		cfg.Watch = true
	}
	if c.IsSet("interval") {
		cfg.Interval = c.Int("interval")
	}

	setupDebugLog(c, cfg)

	thm := theme.Default()
	notify := newNotifier(thm)
	a := app.New(cfg, repoPath, notify)

	opts := commit.Options{
		DryRun:  c.Bool("dry-run"),
		Push:    cfg.Push,
		Verbose: c.Bool("verbose"),
	}

	// Pushing from a detached HEAD would fail after every commit already
	// landed; refuse up front.
	if opts.Push && !opts.DryRun {
		if branch, err := a.Git().CurrentBranch(ctx); err != nil {
			return urfavecli.Exit(fmt.Sprintf("Cannot push: %v", err), 1)
		} else if opts.Verbose {
			notify(fmt.Sprintf("Will push branch %s to origin", branch), "info")
		}
	}

	switch {
	case c.Bool("review"):
		return runReview(ctx, a, opts, cfg, thm, notify)
	case cfg.Watch:
		notify("Starting in watch mode. Press Ctrl+C to stop.", "info")
		err := a.Watch(ctx, opts)
		if err != nil && !errors.Is(err, context.Canceled) {
			return urfavecli.Exit(fmt.Sprintf("%v", err), 1)
		}
		notify("lazycommit stopped", "info")
		return nil
	default:
		report, err := a.RunOnce(ctx, opts)
		if err != nil {
			return urfavecli.Exit(fmt.Sprintf("%v", err), 1)
		}
		if report.Units > 0 {
			notify(fmt.Sprintf("Pass complete: %d committed, %d failed", report.Committed, report.Failed), "info")
		}
		return nil
	}
}

func runReview(ctx context.Context, a *app.App, opts commit.Options, cfg *config.AppConfig, thm *theme.Theme, notify commit.NotifyFn) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return urfavecli.Exit("review mode needs a terminal", 1)
	}

	units, err := a.Plan(ctx)
	if err != nil {
		return urfavecli.Exit(fmt.Sprintf("%v", err), 1)
	}
	if len(units) == 0 {
		return nil
	}

	model := tui.NewModel(units, a, opts, thm, cfg.ShowIcons)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return urfavecli.Exit(fmt.Sprintf("Error running review screen: %v", err), 1)
	}

	if !model.Accepted() {
		notify("Aborted, nothing committed", "info")
		return nil
	}

	report := model.Report()
	notify(fmt.Sprintf("Pass complete: %d committed, %d failed", report.Committed, report.Failed), "info")
	return nil
}
