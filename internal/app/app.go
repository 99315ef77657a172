// Package app wires the scan/group/commit pass and the watch loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/chmouel/lazycommit/internal/commit"
	"github.com/chmouel/lazycommit/internal/config"
	"github.com/chmouel/lazycommit/internal/git"
	"github.com/chmouel/lazycommit/internal/grouping"
	log "github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/models"
)

// App ties the git service, grouping engine and commit runner together for
// one repository. A pass is strictly sequential; the app assumes exclusive
// access to the working tree while it runs.
type App struct {
	cfg    *config.AppConfig
	git    *git.Service
	engine *grouping.Engine
	runner *commit.Runner
	notify commit.NotifyFn
}

// New constructs an App for the repository rooted at repoPath.
func New(cfg *config.AppConfig, repoPath string, notify commit.NotifyFn) *App {
	if notify == nil {
		notify = func(string, string) {}
	}
	service := git.NewService(repoPath)
	return &App{
		cfg:    cfg,
		git:    service,
		engine: grouping.NewEngine(service),
		runner: commit.NewRunner(service, cfg.CommitMessageTemplate, notify),
		notify: notify,
	}
}

// Git exposes the underlying git service.
func (a *App) Git() *git.Service {
	return a.git
}

// Plan scans the working tree and returns the planned commit units. A clean
// tree yields nil units and no error; a failed status scan is the one error
// that aborts a pass before any mutation.
func (a *App) Plan(ctx context.Context) ([]models.CommitUnit, error) {
	a.notify(fmt.Sprintf("Scanning for changes in %s...", a.git.RepoPath()), "info")

	records, err := a.git.ChangedFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning for changes: %w", err)
	}
	if len(records) == 0 {
		a.notify("No changes detected", "info")
		return nil, nil
	}

	a.notify(fmt.Sprintf("Found %d changed files", len(records)), "info")
	return a.engine.Group(ctx, a.git.RepoPath(), records), nil
}

// Commit runs the given plan.
func (a *App) Commit(ctx context.Context, units []models.CommitUnit, opts commit.Options) commit.Report {
	return a.runner.Run(ctx, units, opts)
}

// RunOnce performs one full pass: scan, group, commit, optionally push.
func (a *App) RunOnce(ctx context.Context, opts commit.Options) (commit.Report, error) {
	units, err := a.Plan(ctx)
	if err != nil {
		return commit.Report{}, err
	}
	if len(units) == 0 {
		return commit.Report{}, nil
	}
	return a.Commit(ctx, units, opts), nil
}

// Watch repeats full passes until ctx is cancelled. Each pass is followed by
// a wait for either the configured interval or a debounced working-tree
// event. Pass-internal failures are already isolated by the runner; only a
// failed status scan ends the loop with an error.
func (a *App) Watch(ctx context.Context, opts commit.Options) error {
	watcher := NewTreeWatchService(log.Printf)
	if started, err := watcher.Start(a.git.RepoPath()); err != nil {
		log.Printf("tree watcher unavailable, polling only: %v", err)
	} else if started {
		defer watcher.Stop()
	}

	interval := time.Duration(a.cfg.Interval) * time.Second

	for {
		if _, err := a.RunOnce(ctx, opts); err != nil {
			return err
		}

		a.notify(fmt.Sprintf("Waiting %s before next scan...", interval), "info")

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		case <-watcher.Events:
			timer.Stop()
			if !watcher.ShouldRefresh(time.Now()) {
				// Too soon after the last wakeup; fall back to the
				// remaining debounce window before rescanning.
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(WatchDebounce):
				}
			}
		}
	}
}
