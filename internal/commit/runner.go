// Package commit executes the stage/commit/push sequence for planned units.
package commit

import (
	"context"
	"fmt"
	"path"
	"strings"

	log "github.com/chmouel/lazycommit/internal/log"
	"github.com/chmouel/lazycommit/internal/models"
)

// DefaultMessageTemplate is the commit message format. {change_type} is the
// change kind token and {name} the file path or directory base name.
const DefaultMessageTemplate = "{change_type}: {name}"

// Gitter is the mutation surface the runner drives. Implemented by the git
// service; faked in tests.
type Gitter interface {
	StageFile(ctx context.Context, path string) error
	StageDirectory(ctx context.Context, dir string) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context) error
}

// NotifyFn receives human-facing progress messages with a severity of
// "info", "warning" or "error".
type NotifyFn func(message string, severity string)

// Options control a single run.
type Options struct {
	DryRun  bool
	Push    bool
	Verbose bool
}

// Report summarizes one run. A run never fails as a whole once it starts:
// staging and commit errors are isolated per unit (and per file inside
// individual units), and a push failure is a warning only.
type Report struct {
	Units     int
	Committed int
	Failed    int
	Pushed    bool
	PushErr   error
}

// Runner walks commit units in order and applies them.
type Runner struct {
	git      Gitter
	template string
	notify   NotifyFn
}

// NewRunner constructs a Runner. An empty template falls back to
// DefaultMessageTemplate; a nil notify is replaced with a no-op.
func NewRunner(git Gitter, template string, notify NotifyFn) *Runner {
	if template == "" {
		template = DefaultMessageTemplate
	}
	if notify == nil {
		notify = func(string, string) {}
	}
	return &Runner{git: git, template: template, notify: notify}
}

// Run processes units in order. Dry-run mode reports what each unit would do
// and performs zero mutating calls.
func (r *Runner) Run(ctx context.Context, units []models.CommitUnit, opts Options) Report {
	report := Report{Units: len(units)}

	for _, unit := range units {
		if opts.DryRun {
			r.reportDryRun(unit, opts.Verbose)
			continue
		}

		switch unit.Kind {
		case models.UnitDirectory:
			r.runDirectory(ctx, unit, opts, &report)
		case models.UnitIndividual:
			r.runIndividual(ctx, unit, opts, &report)
		}
	}

	switch {
	case opts.Push && opts.DryRun:
		r.notify("DRY RUN: would push changes to remote", "info")
	case opts.Push:
		if err := r.git.Push(ctx); err != nil {
			report.PushErr = err
			r.notify(fmt.Sprintf("Failed to push changes: %v", err), "warning")
			r.notify("Changes were committed locally but not pushed to remote", "warning")
		} else {
			report.Pushed = true
			r.notify("Pushed changes to remote", "info")
		}
	}

	return report
}

func (r *Runner) runDirectory(ctx context.Context, unit models.CommitUnit, opts Options, report *Report) {
	kind := unit.Change.String()
	r.notify(fmt.Sprintf("Processing directory: %s: %s", kind, unit.Path), "info")

	if err := r.git.StageDirectory(ctx, unit.Path); err != nil {
		report.Failed++
		log.Printf("stage directory %s: %v", unit.Path, err)
		r.notify(fmt.Sprintf("Failed to stage directory %s: %v", unit.Path, err), "error")
		return
	}

	message := r.formatMessage(kind, directoryName(unit.Path))
	if err := r.git.Commit(ctx, message); err != nil {
		report.Failed++
		log.Printf("commit directory %s: %v", unit.Path, err)
		r.notify(fmt.Sprintf("Failed to commit directory %s: %v", unit.Path, err), "error")
		return
	}

	report.Committed++
	if opts.Verbose {
		r.notify(fmt.Sprintf("Committed directory: %s: %s (message: %q)", kind, unit.Path, message), "info")
	} else {
		r.notify(fmt.Sprintf("Committed directory: %s: %s", kind, unit.Path), "info")
	}
}

func (r *Runner) runIndividual(ctx context.Context, unit models.CommitUnit, opts Options, report *Report) {
	for i, file := range unit.Files {
		kind := fileKind(unit, i)
		r.notify(fmt.Sprintf("Processing: %s: %s", kind, file), "info")

		if err := r.git.StageFile(ctx, file); err != nil {
			report.Failed++
			log.Printf("stage file %s: %v", file, err)
			r.notify(fmt.Sprintf("Failed to stage file %s: %v", file, err), "error")
			continue
		}

		message := r.formatMessage(kind, file)
		if err := r.git.Commit(ctx, message); err != nil {
			report.Failed++
			log.Printf("commit file %s: %v", file, err)
			r.notify(fmt.Sprintf("Failed to commit %s: %v", file, err), "error")
			continue
		}

		report.Committed++
		if opts.Verbose {
			r.notify(fmt.Sprintf("Committed: %s: %s (message: %q)", kind, file, message), "info")
		} else {
			r.notify(fmt.Sprintf("Committed: %s: %s", kind, file), "info")
		}
	}
}

func (r *Runner) reportDryRun(unit models.CommitUnit, verbose bool) {
	switch unit.Kind {
	case models.UnitDirectory:
		r.notify(fmt.Sprintf("DRY RUN: would commit %d files in %s: %s",
			unit.FileCount(), unit.Change, unit.Path), "info")
	case models.UnitIndividual:
		r.notify(fmt.Sprintf("DRY RUN: would commit %d files individually",
			unit.FileCount()), "info")
	}
	if verbose {
		for i, file := range unit.Files {
			kind := unit.Change.String()
			if unit.Kind == models.UnitIndividual {
				kind = fileKind(unit, i)
			}
			r.notify(fmt.Sprintf("DRY RUN:   %s: %s", kind, file), "info")
		}
	}
}

func (r *Runner) formatMessage(kind, name string) string {
	message := strings.ReplaceAll(r.template, "{change_type}", kind)
	return strings.ReplaceAll(message, "{name}", name)
}

// fileKind resolves the change token for file i of an individual unit. When
// the per-file kinds are absent or too short the original heuristic is kept
// as-is: paths ending in a separator default to "add", everything else to
// "mod" (never re-derived from a fresh status lookup).
func fileKind(unit models.CommitUnit, i int) string {
	if i < len(unit.FileChanges) {
		return unit.FileChanges[i].String()
	}
	if strings.HasSuffix(unit.Files[i], "/") {
		return "add"
	}
	return "mod"
}

// directoryName returns the commit message name for a directory path,
// defaulting to "directory" when the path has no base component such as the
// repository root.
func directoryName(dir string) string {
	base := path.Base(strings.TrimSuffix(dir, "/"))
	if base == "." || base == "/" || base == "" {
		return "directory"
	}
	return base
}
